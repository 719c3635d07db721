package email

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"github.com/toqasaad97/invoice/internal/form"
	"github.com/toqasaad97/invoice/internal/model"
)

// Draft is a proposed subject and body for an invoice email.
type Draft struct {
	Subject string `json:"subject"`
	Body    string `json:"body"`
}

// Drafter proposes email copy for an invoice using OpenAI.
type Drafter struct {
	client      *openai.Client
	model       string
	temperature float32
	logger      *zap.Logger
}

// NewDrafter creates a new email drafter
func NewDrafter(apiKey, chatModel string, temperature float32, logger *zap.Logger) *Drafter {
	return &Drafter{
		client:      openai.NewClient(apiKey),
		model:       chatModel,
		temperature: temperature,
		logger:      logger,
	}
}

// Compose drafts a subject and body for sending the given invoice to its
// billing contact.
func (d *Drafter) Compose(ctx context.Context, inv *model.Invoice) (*Draft, error) {
	totals := form.Compute(inv)

	prompt := fmt.Sprintf(
		"Draft a short, professional email delivering a hotel stay invoice.\n"+
			"Invoice number: %s\nCustomer: %s\nHotel: %s\nStay: %s to %s (%d nights, %d rooms)\n"+
			"Grand total: %.2f %s\nRemaining balance due: %.2f %s\n"+
			"Respond with a JSON object with keys \"subject\" and \"body\".",
		inv.InvoiceNumber, inv.Customer, inv.HotelName,
		inv.CheckInDate, inv.CheckOutDate, inv.TotalNights, inv.TotalRooms,
		totals.GrandTotal, inv.Currency, totals.RemainingBalance, inv.Currency,
	)

	req := openai.ChatCompletionRequest{
		Model:       d.model,
		Temperature: d.temperature,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleSystem,
				Content: "You are an assistant for a business-travel billing desk. Always respond with valid JSON.",
			},
			{
				Role:    openai.ChatMessageRoleUser,
				Content: prompt,
			},
		},
	}

	resp, err := d.client.CreateChatCompletion(ctx, req)
	if err != nil {
		d.logger.Error("OpenAI API call failed", zap.Error(err))
		return nil, fmt.Errorf("OpenAI API call failed: %w", err)
	}
	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("no response from OpenAI")
	}

	content := resp.Choices[0].Message.Content

	var draft Draft
	if err := json.Unmarshal([]byte(content), &draft); err != nil {
		if jsonStr := extractJSON(content); jsonStr != "" {
			if err := json.Unmarshal([]byte(jsonStr), &draft); err == nil {
				return &draft, nil
			}
		}
		return nil, fmt.Errorf("failed to parse draft response: %w", err)
	}

	if draft.Subject == "" {
		draft.Subject = "Invoice " + inv.InvoiceNumber
	}
	return &draft, nil
}

// extractJSON pulls a JSON object out of a markdown code block.
func extractJSON(content string) string {
	start := strings.Index(content, "```json")
	if start == -1 {
		start = strings.Index(content, "```")
		if start == -1 {
			return ""
		}
		start += 3
	} else {
		start += 7
	}

	end := strings.Index(content[start:], "```")
	if end == -1 {
		return ""
	}
	return strings.TrimSpace(content[start : start+end])
}
