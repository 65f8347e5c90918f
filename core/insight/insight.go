// Package insight produces the AI-written texts of the dashboards.
// The text generator is an opaque collaborator; the Service always yields text.
package insight

import (
	"context"
	"fmt"
	"strings"

	"github.com/pkg/errors"

	"github.com/trezcool/edumanage/core"
)

// Fallback texts
const (
	SummaryUnavailable  = "AI insights are currently unavailable. Please check your API configuration."
	SummaryEmpty        = "Unable to generate summary."
	FeedbackUnavailable = "Feedback generated manually: Good effort."
	FeedbackEmpty       = "Good job."
)

type (
	InstituteFacts struct {
		TotalStudents  int `json:"totalStudents"`
		TotalBatches   int `json:"totalBatches"`
		AttendanceRate int `json:"attendanceRate"`
	}

	FeedbackRequest struct {
		TaskTitle   string `json:"taskTitle"`
		StudentName string `json:"studentName"`
		Grade       int    `json:"grade"`
	}

	// Generator writes free text. An empty answer is not an error.
	Generator interface {
		Summarize(ctx context.Context, facts InstituteFacts) (string, error)
		Feedback(ctx context.Context, req FeedbackRequest) (string, error)
	}

	Service struct {
		gen    Generator
		logger core.Logger
	}
)

func NewService(gen Generator, logger core.Logger) *Service {
	return &Service{gen: gen, logger: logger}
}

// Summary returns an executive summary of the institute, or a fallback text.
func (svc *Service) Summary(ctx context.Context, facts InstituteFacts) string {
	text, err := svc.gen.Summarize(ctx, facts)
	if err != nil {
		svc.logger.Warn("generating institute summary", err)
		return SummaryUnavailable
	}
	if text = strings.TrimSpace(text); text == "" {
		return SummaryEmpty
	}
	return text
}

// Feedback returns a short comment on a graded task, or a fallback text.
func (svc *Service) Feedback(ctx context.Context, req FeedbackRequest) string {
	text, err := svc.gen.Feedback(ctx, req)
	if err != nil {
		svc.logger.Warn("generating task feedback", err)
		return FeedbackUnavailable
	}
	if text = strings.TrimSpace(text); text == "" {
		return FeedbackEmpty
	}
	return text
}

// Prompts

func SummaryPrompt(facts InstituteFacts) string {
	return fmt.Sprintf(`Act as an educational consultant.
Analyze the following institute data:
- Total Students: %d
- Active Batches: %d
- Average Attendance Rate: %d%%

Provide a 2-sentence executive summary of the institute's health and one actionable recommendation for improvement.
Do not use markdown formatting. Keep it professional.`,
		facts.TotalStudents, facts.TotalBatches, facts.AttendanceRate)
}

func FeedbackPrompt(req FeedbackRequest) string {
	return fmt.Sprintf(`Write a short, encouraging feedback comment for a student named %s
who scored %d/100 on the task %q.
If the score is below 70, offer a constructive tip. If above 90, praise their excellence.
Keep it under 30 words.`,
		req.StudentName, req.Grade, req.TaskTitle)
}

// Disabled is the Generator used when no text-generation backend is configured.
type Disabled struct{}

var ErrDisabled = errors.New("text generation is not configured")

func (Disabled) Summarize(context.Context, InstituteFacts) (string, error) { return "", ErrDisabled }
func (Disabled) Feedback(context.Context, FeedbackRequest) (string, error) { return "", ErrDisabled }
