package service

import (
	"context"
	"fmt"
	"time"

	"github.com/gofrs/uuid/v5"
	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/carson-networks/recurring-server/internal/logging"
	"github.com/carson-networks/recurring-server/internal/recurring"
)

const tracerName = "github.com/carson-networks/recurring-server/internal/service"

// RecurringService validates recurring rules and materializes their instances.
type RecurringService struct {
	validator *recurring.RuleValidator
	rules     RuleStore
	instances InstancePersister
	logger    *logrus.Logger
	timeout   time.Duration
	tracer    trace.Tracer
}

// NewRecurringService creates a new RecurringService. A zero timeout means the
// caller's context alone bounds Materialize.
func NewRecurringService(
	validator *recurring.RuleValidator,
	rules RuleStore,
	instances InstancePersister,
	logger *logrus.Logger,
	timeout time.Duration,
) *RecurringService {
	return &RecurringService{
		validator: validator,
		rules:     rules,
		instances: instances,
		logger:    logger,
		timeout:   timeout,
		tracer:    otel.Tracer(tracerName),
	}
}

// Materialize validates rule, stores it, and persists every generated instance.
// Validation problems come back as a *recurring.ValidationError before anything
// is written. A *recurring.PersistenceError means some chunks were written.
func (s *RecurringService) Materialize(ctx context.Context, rule recurring.Rule) (*MaterializeResult, error) {
	ctx, span := s.tracer.Start(ctx, "RecurringService.Materialize",
		trace.WithAttributes(attribute.String("recurring.frequency", string(rule.Frequency))))
	defer span.End()

	logData := logging.NewLogData(s.logger)
	logData.AddData("frequency", rule.Frequency)

	endValidate := logData.AddTiming("validateMs")
	problems := s.validator.Validate(rule)
	endValidate()
	if problems != nil {
		span.SetStatus(codes.Error, "invalid recurring rule")
		logData.AddData("problems", problems)
		logData.Log().Info("RecurringService.Materialize.Invalid")
		return nil, &recurring.ValidationError{Problems: problems}
	}

	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	schedule, err := rule.Schedule()
	if err != nil {
		span.RecordError(err)
		logData.Log().WithError(err).Error("RecurringService.Materialize.Schedule")
		return nil, err
	}

	recurringID, err := uuid.NewV4()
	if err != nil {
		return nil, fmt.Errorf("new recurring id: %w", err)
	}
	logData.AddData("recurringID", recurringID.String())
	span.SetAttributes(attribute.String("recurring.id", recurringID.String()))

	tmpl := recurring.NewTemplate(recurringID, *rule.TemplateData)

	endGenerate := logData.AddTiming("generateMs")
	instances := recurring.Generate(tmpl, schedule)
	endGenerate()
	logData.AddData("generatedCount", len(instances))
	span.SetAttributes(attribute.Int("recurring.generated_count", len(instances)))

	if expected := recurring.ExpectedCount(schedule); len(instances) < expected {
		logData.Log().WithFields(logrus.Fields{
			"expected":  expected,
			"safetyCap": recurring.SafetyCap(schedule.Frequency()),
		}).Warn("RecurringService.Materialize.SafetyCapTruncated")
	}

	endSave := logData.AddTiming("saveRuleMs")
	err = s.rules.SaveRule(ctx, recurring.StoredRule{
		Rule:           rule,
		Template:       tmpl,
		GeneratedCount: len(instances),
	})
	endSave()
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "save rule failed")
		logData.Log().WithError(err).Error("RecurringService.Materialize.SaveRule")
		return nil, err
	}

	endPersist := logData.AddTiming("persistMs")
	err = s.instances.Persist(ctx, instances)
	endPersist()
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "persist instances failed")
		logData.Log().WithError(err).Error("RecurringService.Materialize.Persist")
		return nil, err
	}

	logData.Log().Info("RecurringService.Materialize.Complete")

	return &MaterializeResult{
		RecurringID:    recurringID,
		GeneratedCount: len(instances),
		Preview:        instances[:min(previewSize, len(instances))],
	}, nil
}
