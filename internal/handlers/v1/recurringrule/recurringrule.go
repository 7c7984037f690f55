package recurringrule

import (
	"github.com/carson-networks/recurring-server/internal/recurring"
	"github.com/carson-networks/recurring-server/internal/service"
)

// TemplateDataBody is the transaction payload copied into each instance.
type TemplateDataBody struct {
	Amount      string `json:"amount,omitempty" doc:"Decimal amount"`
	Type        string `json:"type,omitempty" doc:"income or expense"`
	Category    string `json:"category,omitempty" doc:"Category label"`
	Description string `json:"description,omitempty" doc:"Free text description"`
}

// InstanceResponse is one generated transaction.
type InstanceResponse struct {
	RecurringID string `json:"recurringId"`
	Sequence    int    `json:"sequence"`
	Date        string `json:"date" doc:"YYYY-MM-DD"`
	Amount      string `json:"amount"`
	Type        string `json:"type"`
	Category    string `json:"category"`
	Description string `json:"description"`
	IsRecurring bool   `json:"isRecurring"`
}

func toDomainRule(body CreateRecurringBody) recurring.Rule {
	rule := recurring.Rule{
		Frequency:   recurring.Frequency(body.Frequency),
		DayOfMonth:  body.DayOfMonth,
		DayOfMonth2: body.DayOfMonth2,
		MonthOfYear: body.MonthOfYear,
		StartMonth:  body.StartMonth,
		StartYear:   body.StartYear,
		EndMonth:    body.EndMonth,
		EndYear:     body.EndYear,
	}
	if body.TemplateData != nil {
		rule.TemplateData = &recurring.TemplateData{
			Amount:      body.TemplateData.Amount,
			Type:        body.TemplateData.Type,
			Category:    body.TemplateData.Category,
			Description: body.TemplateData.Description,
		}
	}
	return rule
}

func toResponse(result *service.MaterializeResult) CreateRecurringResponse {
	preview := make([]InstanceResponse, 0, len(result.Preview))
	for _, inst := range result.Preview {
		preview = append(preview, InstanceResponse{
			RecurringID: inst.RecurringID.String(),
			Sequence:    inst.Sequence,
			Date:        inst.Date,
			Amount:      inst.Amount.String(),
			Type:        inst.Type,
			Category:    inst.Category,
			Description: inst.Description,
			IsRecurring: inst.IsRecurring,
		})
	}
	return CreateRecurringResponse{
		RecurringID:    result.RecurringID.String(),
		GeneratedCount: result.GeneratedCount,
		Preview:        preview,
	}
}
