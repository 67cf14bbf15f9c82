package oracle

import "testing"

func TestParseLenient_PlainJSON(t *testing.T) {
	raw := `{"courseCode":"CS101","courseName":"计算机导论","instructor":"Dr. Lee","term":"Fall 2025","events":[{"eventType":"exam","title":"Midterm","dueDate":"2025-10-15","description":""}]}`

	res, ok := parseLenient(raw)
	if !ok {
		t.Fatal("合法 JSON 应当解析成功")
	}
	if res.CourseCode != "CS101" || res.Instructor != "Dr. Lee" {
		t.Errorf("元信息解析错误: %+v", res)
	}
	if len(res.Events) != 1 || res.Events[0].DueDate != "2025-10-15" {
		t.Errorf("事件解析错误: %+v", res.Events)
	}
}

func TestParseLenient_MarkdownFence(t *testing.T) {
	raw := "```json\n{\"courseCode\":\"MATH200\",\"events\":[]}\n```"

	res, ok := parseLenient(raw)
	if !ok {
		t.Fatal("带代码围栏的 JSON 应当解析成功")
	}
	if res.CourseCode != "MATH200" {
		t.Errorf("courseCode = %q, 期望 MATH200", res.CourseCode)
	}
}

func TestParseLenient_ProseWrapped(t *testing.T) {
	// 模型在 JSON 前后附加解说文字
	raw := `Sure! Here is the extraction result:

{"courseName":"Biology","events":[{"eventType":"quiz","title":"Quiz 1","dueDate":"2025-09-12","description":null}]}

Let me know if you need anything else.`

	res, ok := parseLenient(raw)
	if !ok {
		t.Fatal("夹杂解说文字的 JSON 应当解析成功")
	}
	if res.CourseName != "Biology" || len(res.Events) != 1 {
		t.Errorf("解析结果错误: %+v", res)
	}
}

func TestParseLenient_NoJSONObject(t *testing.T) {
	// 纯文字且不含 {...} 片段 — 返回失败标记，不 panic
	_, ok := parseLenient("I could not find any syllabus content in this document.")
	if ok {
		t.Error("不含 JSON 对象的输出应当解析失败")
	}
}

func TestParseLenient_MalformedJSON(t *testing.T) {
	_, ok := parseLenient(`{"events": [ {"title": "broken"`)
	if ok {
		t.Error("残缺 JSON 应当解析失败")
	}
}

func TestParseLenient_Empty(t *testing.T) {
	_, ok := parseLenient("")
	if ok {
		t.Error("空字符串应当解析失败")
	}
}
