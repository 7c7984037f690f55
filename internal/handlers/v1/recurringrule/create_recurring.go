package recurringrule

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/carson-networks/recurring-server/internal/recurring"
	"github.com/carson-networks/recurring-server/internal/service"
)

// CreateRecurringBody is the request body for creating a recurring rule. Every
// field is optional at the schema level so that missing fields are reported by
// rule validation, all at once.
type CreateRecurringBody struct {
	TemplateData *TemplateDataBody `json:"templateData,omitempty"`
	Frequency    string            `json:"frequency,omitempty" doc:"monthly, yearly or bi-weekly"`
	DayOfMonth   *int              `json:"dayOfMonth,omitempty"`
	DayOfMonth2  *int              `json:"dayOfMonth2,omitempty" doc:"Second day, bi-weekly only"`
	MonthOfYear  *int              `json:"monthOfYear,omitempty" doc:"Yearly only"`
	StartMonth   *int              `json:"startMonth,omitempty"`
	StartYear    *int              `json:"startYear,omitempty"`
	EndMonth     *int              `json:"endMonth,omitempty"`
	EndYear      *int              `json:"endYear,omitempty"`
}

// CreateRecurringInput is the Huma input for creating a recurring rule.
type CreateRecurringInput struct {
	Body CreateRecurringBody
}

// CreateRecurringResponse is the response body for a materialized rule.
type CreateRecurringResponse struct {
	RecurringID    string             `json:"recurringId" doc:"Recurring rule UUID"`
	GeneratedCount int                `json:"generatedCount"`
	Preview        []InstanceResponse `json:"preview" doc:"First generated instances"`
}

// CreateRecurringOutput is the Huma output for creating a recurring rule.
type CreateRecurringOutput struct {
	Body CreateRecurringResponse
}

type recurringMaterializer interface {
	Materialize(ctx context.Context, rule recurring.Rule) (*service.MaterializeResult, error)
}

// CreateRecurringHandler handles POST /v1/recurring.
type CreateRecurringHandler struct {
	service recurringMaterializer
}

// NewCreateRecurringHandler creates a new CreateRecurringHandler.
func NewCreateRecurringHandler(svc recurringMaterializer) *CreateRecurringHandler {
	return &CreateRecurringHandler{service: svc}
}

// Register registers the create recurring endpoint with the Huma API.
func (h *CreateRecurringHandler) Register(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID:   "create-recurring",
		Method:        http.MethodPost,
		Path:          "/v1/recurring",
		Summary:       "Create recurring rule",
		Description:   "Validates a recurring rule and materializes every transaction it produces.",
		Tags:          []string{"Recurring"},
		DefaultStatus: http.StatusCreated,
	}, h.handle)
}

func (h *CreateRecurringHandler) handle(ctx context.Context, input *CreateRecurringInput) (*CreateRecurringOutput, error) {
	result, err := h.service.Materialize(ctx, toDomainRule(input.Body))
	if err != nil {
		return nil, mapError(err)
	}
	return &CreateRecurringOutput{Body: toResponse(result)}, nil
}

func mapError(err error) error {
	var validationErr *recurring.ValidationError
	if errors.As(err, &validationErr) {
		details := make([]error, 0, len(validationErr.Problems))
		for _, problem := range validationErr.Problems {
			details = append(details, &huma.ErrorDetail{Message: problem, Location: "body"})
		}
		return huma.NewError(http.StatusBadRequest, "invalid recurring rule", details...)
	}

	var persistErr *recurring.PersistenceError
	if errors.As(err, &persistErr) {
		details := make([]error, 0, len(persistErr.Failed)+1)
		for _, failure := range persistErr.Failed {
			details = append(details, &huma.ErrorDetail{
				Message:  failure.Err.Error(),
				Location: fmt.Sprintf("chunk[%d]", failure.Index),
				Value:    failure.Size,
			})
		}
		if n := len(persistErr.NotAttempted); n > 0 {
			details = append(details, &huma.ErrorDetail{
				Message: fmt.Sprintf("%d chunks not attempted", n),
				Value:   persistErr.NotAttempted,
			})
		}
		msg := fmt.Sprintf("persisted %d of %d chunks", len(persistErr.Succeeded), persistErr.TotalChunks)
		return huma.NewError(http.StatusInternalServerError, msg, details...)
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return huma.NewError(http.StatusGatewayTimeout, "materialization timed out", err)
	}

	return huma.NewError(http.StatusInternalServerError, "failed to create recurring rule", err)
}
