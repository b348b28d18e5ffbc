package ai

import (
	"fmt"
	"math"

	"meal-planner/internal/models"
	"meal-planner/internal/pkg/common"
)

// Status discriminates resolution outcomes so callers pattern-match
// instead of inspecting error text.
type Status string

const (
	// StatusOK carries a payload, either cached or freshly generated.
	StatusOK Status = "ok"
	// StatusSkipped means the group has the AI feature disabled; nothing
	// was looked up or generated.
	StatusSkipped Status = "skipped"
	// StatusRejected means the model refused the input as not food. The
	// localized message is user-facing.
	StatusRejected Status = "rejected"
	// StatusFailed covers every other generation-path failure; it is
	// logged and absorbed by callers.
	StatusFailed Status = "failed"
)

// GeneratedIngredient is a name/amount/unit triple from the model.
type GeneratedIngredient struct {
	Name   string `json:"name"`
	Amount string `json:"amount"`
	Unit   string `json:"unit"`
}

// Payload is the usable content of a successful resolution.
type Payload struct {
	Ingredients []GeneratedIngredient `json:"ingredients"`
	Recipe      string                `json:"recipe"`
	Nutrition   models.Nutrition      `json:"nutrition"`
}

// Resolution is the tagged result of a cache-resolution call.
type Resolution struct {
	Status    Status  `json:"status"`
	Payload   Payload `json:"payload"`
	Message   string  `json:"message,omitempty"`
	Reason    string  `json:"reason,omitempty"`
	FromCache bool    `json:"from_cache"`
}

// ValidationErr converts a rejected resolution into the validation error
// that must propagate to the end user.
func (r Resolution) ValidationErr() error {
	if r.Status != StatusRejected {
		return nil
	}
	return common.NewValidationError(r.Message)
}

// rawPayload mirrors the model's JSON output. Nutrition comes in as
// floats because models round-trip integers unreliably.
type rawPayload struct {
	Error       string                `json:"error"`
	Message     string                `json:"message"`
	Ingredients []GeneratedIngredient `json:"ingredients"`
	Recipe      string                `json:"recipe"`
	Calories    *float64              `json:"calories"`
	Proteins    *float64              `json:"proteins"`
	Fats        *float64              `json:"fats"`
	Carbs       *float64              `json:"carbs"`
}

// notFoodFallback is used when the model rejects input without a usable
// message of its own.
var notFoodFallback = map[string]string{
	models.LangEN: "%q doesn't look like a dish. Please enter a food name.",
	models.LangRU: "«%s» не похоже на блюдо. Введите название блюда.",
}

// parsePayload validates raw model output and shapes it into a Payload.
// Returns a rejected or failed Resolution instead of an error so the
// caller gets exactly one of the tagged outcomes.
func parsePayload(rawText, dishName, lang string) Resolution {
	content := common.StripCodeFence(rawText)

	var raw rawPayload
	if err := common.ParseJSON(content, &raw); err != nil {
		return Resolution{
			Status: StatusFailed,
			Reason: fmt.Sprintf("unparsable model output: %v", err),
		}
	}

	if raw.Error != "" {
		msg := raw.Message
		if msg == "" {
			msg = fmt.Sprintf(notFoodFallback[models.NormalizeLang(lang)], dishName)
		}
		return Resolution{
			Status:  StatusRejected,
			Message: msg,
		}
	}

	if len(raw.Ingredients) == 0 && raw.Recipe == "" {
		return Resolution{
			Status: StatusFailed,
			Reason: "model output missing expected fields",
		}
	}

	return Resolution{
		Status: StatusOK,
		Payload: Payload{
			Ingredients: raw.Ingredients,
			Recipe:      raw.Recipe,
			Nutrition: models.Nutrition{
				Calories: roundToInt(raw.Calories),
				Proteins: roundToInt(raw.Proteins),
				Fats:     roundToInt(raw.Fats),
				Carbs:    roundToInt(raw.Carbs),
			},
		},
	}
}

func roundToInt(v *float64) *int {
	if v == nil {
		return nil
	}
	i := int(math.Round(*v))
	return &i
}
