package service

import (
	"context"
	"encoding/base64"
	"fmt"
	"strings"

	"medifind-service/internal/apperror"
	"medifind-service/pkg/gemini"
	"medifind-service/prometheus"
)

const msgAIUnavailable = "Failed to communicate with the AI service."

const scanPrompt = "Analyze this image of a medical prescription. List only the medicine names you can identify clearly, one per line. Do not add any extra text or headings. If you cannot identify any medicines, respond with 'No medicines found'."

const symptomSystemPrompt = "You are a helpful AI assistant for a medical information website. You are not a doctor. " +
	"Your role is to provide general information about common, over-the-counter (OTC) remedies for mild symptoms. " +
	"You must NEVER provide a medical diagnosis or prescribe medication. Your response must be formatted in markdown. " +
	"At the end of your response, you MUST include the following disclaimer, formatted exactly like this: " +
	"'**Disclaimer: This is not medical advice. Always consult a healthcare professional for any health concerns.**'"

const symptomPrompt = `A user has the following symptoms: "%s". Based on this, suggest some general, widely available over-the-counter remedies or comfort measures. Do not diagnose any condition.`

type AIService struct {
	gen Generator
}

func NewAIService(gen Generator) *AIService {
	return &AIService{gen: gen}
}

// ScanPrescription asks the model to list the medicine names visible in a
// base64 encoded prescription image.
func (s *AIService) ScanPrescription(ctx context.Context, imageData, mimeType string) (string, error) {
	imageData = strings.TrimSpace(imageData)
	mimeType = strings.TrimSpace(mimeType)
	if imageData == "" || mimeType == "" {
		return "", apperror.Validation("Image data and mime type are required.")
	}
	if _, err := base64.StdEncoding.DecodeString(imageData); err != nil {
		return "", apperror.Validation("Image data must be base64 encoded.")
	}

	req := &gemini.GenerateRequest{
		Contents: []gemini.Content{{Parts: []gemini.Part{
			{Text: scanPrompt},
			{InlineData: &gemini.InlineData{MimeType: mimeType, Data: imageData}},
		}}},
	}
	return s.generate(ctx, "scan", req)
}

// SuggestRemedies asks the model for general over-the-counter suggestions.
func (s *AIService) SuggestRemedies(ctx context.Context, symptoms string) (string, error) {
	symptoms = strings.TrimSpace(symptoms)
	if symptoms == "" {
		return "", apperror.Validation("Symptom description is required.")
	}

	req := &gemini.GenerateRequest{
		SystemInstruction: &gemini.Content{Parts: []gemini.Part{{Text: symptomSystemPrompt}}},
		Contents: []gemini.Content{{Parts: []gemini.Part{
			{Text: fmt.Sprintf(symptomPrompt, symptoms)},
		}}},
	}
	return s.generate(ctx, "symptoms", req)
}

func (s *AIService) generate(ctx context.Context, op string, req *gemini.GenerateRequest) (string, error) {
	text, err := s.gen.GenerateContent(ctx, req)
	if err != nil {
		prometheus.RecordAIRequest(op, "error")
		return "", apperror.ServiceUnavailable(msgAIUnavailable, err)
	}
	prometheus.RecordAIRequest(op, "ok")
	return text, nil
}
