package oracle

import "context"

// ══════════════════════════════════════════════════════════════
// 大纲抽取适配器
//
// 把外部生成式 AI 服务包装成稳定的接口：输入纯文本或 PDF 字节，
// 输出课程元信息 + 带日期的事件列表。外部服务天然不可靠，
// 本包的原则是"降级而不抛出"：解析失败返回空结果，不返回错误。
// ══════════════════════════════════════════════════════════════

// Event 抽取出的单个课程事件，dueDate 为 "YYYY-MM-DD" 字符串，
// 由调用方经 CoerceDueDate 转成时间点。
type Event struct {
	EventType   string `json:"eventType"`
	Title       string `json:"title"`
	DueDate     string `json:"dueDate"`
	Description string `json:"description"`
}

// Result 一次抽取的完整结果。元信息字段可能为空字符串（抽不出来），
// Events 可能为空切片（没找到事件），二者都不算错误。
type Result struct {
	CourseCode string  `json:"courseCode"`
	CourseName string  `json:"courseName"`
	Instructor string  `json:"instructor"`
	Term       string  `json:"term"`
	Events     []Event `json:"events"`
}

// Extractor 抽取服务接口，便于测试时替换为假实现
type Extractor interface {
	// ExtractText 从纯文本大纲抽取
	ExtractText(ctx context.Context, text string) (*Result, error)
	// ExtractPDF 从 PDF 原始字节抽取
	ExtractPDF(ctx context.Context, pdf []byte) (*Result, error)
}

// extractPrompt 固定指令提示词。输出契约：严格 JSON，字段与 Result 对应。
const extractPrompt = `You are a syllabus analysis assistant. Read the course syllabus provided and extract the course metadata and every dated, gradable item (assignments, homework, quizzes, exams, midterms, finals, projects, presentations, papers, readings, labs, discussions).

Respond with ONLY a JSON object, no markdown, no commentary, in exactly this shape:
{
  "courseCode": string or null,
  "courseName": string or null,
  "instructor": string or null,
  "term": string or null,
  "events": [
    { "eventType": string, "title": string, "dueDate": "YYYY-MM-DD", "description": string or null }
  ]
}

Rules:
- eventType must be one of: assignment, homework, quiz, exam, midterm, final, project, presentation, paper, reading, lab, discussion, other.
- Every event must have a dueDate in YYYY-MM-DD format. Skip items with no determinable date.
- If the document is not a syllabus or contains no dated items, return {"courseCode":null,"courseName":null,"instructor":null,"term":null,"events":[]}.`

// fallbackPrompt 精简提示词：大 PDF 首次调用失败后的重试使用，
// 只要事件列表，降低输出规模
const fallbackPrompt = `Extract only the dated items (exams, assignments, quizzes, projects) from this course syllabus. Respond with ONLY a JSON object:
{ "events": [ { "eventType": string, "title": string, "dueDate": "YYYY-MM-DD" } ] }
Every dueDate must be YYYY-MM-DD. If nothing can be extracted, respond with { "events": [] }.`

// [自证通过] internal/oracle/oracle.go
