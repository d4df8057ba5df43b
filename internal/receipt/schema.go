package receipt

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	generativelanguage "google.golang.org/api/generativelanguage/v1beta"

	"github.com/mmynk/checkbook/internal/models"
)

const prompt = "Analyze the attached receipt. Extract the merchant name, the total amount, " +
	"a brief description of the purchase, and suggest the most appropriate spending category. " +
	"Please provide the total as a number, not a string."

// responseSchema is the structure the model is asked to return.
func responseSchema() *generativelanguage.Schema {
	return &generativelanguage.Schema{
		Type: "OBJECT",
		Properties: map[string]generativelanguage.Schema{
			"merchant": {
				Type:        "STRING",
				Description: "The name of the merchant or store.",
			},
			"total": {
				Type:        "NUMBER",
				Description: "The final total amount of the transaction.",
			},
			"category": {
				Type:        "STRING",
				Enum:        models.CategoryNames(),
				Description: "The most likely spending category for this purchase.",
			},
			"description": {
				Type:        "STRING",
				Description: "A brief, one-line summary of the purchase, like 'Weekly groceries' or 'Dinner with friends'.",
			},
		},
		Required: []string{"merchant", "total", "category", "description"},
	}
}

type reply struct {
	Merchant    string          `json:"merchant"`
	Total       json.RawMessage `json:"total"`
	Category    string          `json:"category"`
	Description string          `json:"description"`
}

// parseReply checks the model's JSON against the schema without trusting the
// model to have honoured it: total must be a JSON number no larger than
// models.MaxAmount, category must be a known category, merchant and
// description must be present. The total is rounded to cents.
func parseReply(text string) (*models.Receipt, error) {
	var r reply
	if err := json.Unmarshal([]byte(strings.TrimSpace(text)), &r); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidReply, err)
	}

	merchant := strings.TrimSpace(r.Merchant)
	if merchant == "" {
		return nil, fmt.Errorf("%w: merchant missing", ErrInvalidReply)
	}
	description := strings.TrimSpace(r.Description)
	if description == "" {
		return nil, fmt.Errorf("%w: description missing", ErrInvalidReply)
	}

	raw := bytes.TrimSpace(r.Total)
	if len(raw) == 0 || raw[0] == '"' || bytes.Equal(raw, []byte("null")) {
		return nil, fmt.Errorf("%w: total is not a number", ErrInvalidReply)
	}
	total, err := models.ParseAmount(string(raw))
	if err != nil {
		return nil, fmt.Errorf("%w: total: %v", ErrInvalidReply, err)
	}
	total = total.Round(2)

	category := models.Category(r.Category)
	if !category.Valid() {
		return nil, fmt.Errorf("%w: unknown category %q", ErrInvalidReply, r.Category)
	}

	return &models.Receipt{
		Merchant:    merchant,
		Total:       total,
		Category:    category,
		Description: description,
	}, nil
}
