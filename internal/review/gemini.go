package review

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const (
	defaultBaseURL = "https://generativelanguage.googleapis.com/v1beta"
	defaultModel   = "gemini-2.0-flash"

	maxQuestions    = 30
	maxQuestionLen  = 300
	requestTimeout  = 60 * time.Second
	reviewerPrompt  = "Bạn là giáo viên thẩm định đề thi. Hãy rà soát nhanh các câu hỏi sau về lỗi chính tả, câu hỏi tối nghĩa hoặc phương án bất hợp lý. Trả lời ngắn gọn bằng tiếng Việt, theo từng câu có vấn đề."
)

// Gemini reviews question snapshots over the Generative Language REST API.
type Gemini struct {
	apiKey  string
	model   string
	baseURL string
	hc      *http.Client
}

func NewGemini(apiKey, model string) *Gemini {
	if model == "" {
		model = defaultModel
	}
	return &Gemini{
		apiKey:  apiKey,
		model:   model,
		baseURL: defaultBaseURL,
		hc:      &http.Client{Timeout: requestTimeout},
	}
}

type geminiRequest struct {
	Contents []geminiContent `json:"contents"`
}
type geminiContent struct {
	Role  string       `json:"role,omitempty"`
	Parts []geminiPart `json:"parts"`
}
type geminiPart struct {
	Text string `json:"text"`
}
type geminiResponse struct {
	Candidates []struct {
		Content geminiContent `json:"content"`
	} `json:"candidates"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error"`
}

func (g *Gemini) Review(ctx context.Context, questions []string) (string, error) {
	if g.apiKey == "" {
		return "", &Error{Kind: NotConfigured}
	}

	body, err := json.Marshal(geminiRequest{
		Contents: []geminiContent{{
			Role:  "user",
			Parts: []geminiPart{{Text: buildPrompt(questions)}},
		}},
	})
	if err != nil {
		return "", &Error{Kind: Transient, Msg: err.Error()}
	}

	url := fmt.Sprintf("%s/models/%s:generateContent?key=%s", g.baseURL, g.model, g.apiKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return "", &Error{Kind: Transient, Msg: err.Error()}
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := g.hc.Do(req)
	if err != nil {
		return "", &Error{Kind: Transient, Msg: err.Error()}
	}
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", &Error{Kind: Transient, Msg: err.Error()}
	}
	if resp.StatusCode == http.StatusTooManyRequests {
		return "", &Error{Kind: QuotaExceeded}
	}
	if resp.StatusCode != http.StatusOK {
		return "", &Error{Kind: Transient, Msg: fmt.Sprintf("status %d", resp.StatusCode)}
	}

	var gr geminiResponse
	if err := json.Unmarshal(data, &gr); err != nil {
		return "", &Error{Kind: Transient, Msg: err.Error()}
	}
	if gr.Error != nil {
		return "", &Error{Kind: Transient, Msg: gr.Error.Message}
	}
	if len(gr.Candidates) == 0 || len(gr.Candidates[0].Content.Parts) == 0 {
		return "", &Error{Kind: Transient, Msg: "empty completion"}
	}
	var out strings.Builder
	for _, p := range gr.Candidates[0].Content.Parts {
		out.WriteString(p.Text)
	}
	return strings.TrimSpace(out.String()), nil
}

// buildPrompt caps and truncates the snapshot so an oversized exam cannot
// blow the request.
func buildPrompt(questions []string) string {
	if len(questions) > maxQuestions {
		questions = questions[:maxQuestions]
	}
	var b strings.Builder
	b.WriteString(reviewerPrompt)
	b.WriteString("\n\n")
	for i, q := range questions {
		r := []rune(q)
		if len(r) > maxQuestionLen {
			r = r[:maxQuestionLen]
		}
		fmt.Fprintf(&b, "%d. %s\n", i+1, string(r))
	}
	return b.String()
}
