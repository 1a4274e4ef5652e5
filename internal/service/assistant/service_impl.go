package assistant

import (
	"context"
	"errors"
	"log/slog"

	"github.com/phrazzld/pocket-doctor/internal/generation"
)

var _ Service = (*serviceImpl)(nil)

type serviceImpl struct {
	guide     *generation.Flow[MedicationGuideInput, MedicationGuideOutput]
	assistant *generation.Flow[MedicationAssistantInput, MedicationAssistantOutput]
	parser    *generation.Flow[PrescriptionParserInput, PrescriptionParserOutput]
}

// Option configures NewService.
type Option func(*options)

type options struct {
	provider  string
	catalogue []byte
}

// WithProvider selects the per-provider model pins from the catalogue.
func WithProvider(provider string) Option {
	return func(o *options) { o.provider = provider }
}

// WithCatalogue replaces the embedded flow catalogue.
func WithCatalogue(data []byte) Option {
	return func(o *options) { o.catalogue = data }
}

// NewService defines the catalogue flows against backend. A broken catalogue
// is a configuration error and should abort startup.
func NewService(backend generation.Backend, logger *slog.Logger, opts ...Option) (Service, error) {
	if backend == nil {
		return nil, errors.New("backend cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	o := options{catalogue: catalogueYAML}
	for _, opt := range opts {
		opt(&o)
	}

	specs, err := LoadCatalogue(o.catalogue, o.provider)
	if err != nil {
		return nil, err
	}
	logger = logger.With(slog.String("component", "assistant_service"))

	guideSpec, err := lookup(specs, FlowMedicationGuide)
	if err != nil {
		return nil, err
	}
	guide, err := generation.NewFlow[MedicationGuideInput, MedicationGuideOutput](guideSpec, backend, logger,
		generation.WithFixedOutput(func(in MedicationGuideInput) map[string]string {
			return map[string]string{
				"medicationName": in.MedicationName,
				"disclaimer":     GuideDisclaimer,
			}
		}),
	)
	if err != nil {
		return nil, err
	}

	assistantSpec, err := lookup(specs, FlowMedicationAssistant)
	if err != nil {
		return nil, err
	}
	assistant, err := generation.NewFlow[MedicationAssistantInput, MedicationAssistantOutput](
		assistantSpec, backend, logger,
		generation.WithFixedOutput(func(MedicationAssistantInput) map[string]string {
			return map[string]string{"disclaimer": AssistantDisclaimer}
		}),
	)
	if err != nil {
		return nil, err
	}

	parserSpec, err := lookup(specs, FlowPrescriptionParser)
	if err != nil {
		return nil, err
	}
	parser, err := generation.NewFlow[PrescriptionParserInput, PrescriptionParserOutput](
		parserSpec, backend, logger)
	if err != nil {
		return nil, err
	}

	return &serviceImpl{guide: guide, assistant: assistant, parser: parser}, nil
}

func (s *serviceImpl) GetMedicationGuide(
	ctx context.Context,
	in MedicationGuideInput,
) (*MedicationGuideOutput, error) {
	return s.guide.Run(ctx, in)
}

func (s *serviceImpl) AskAssistant(
	ctx context.Context,
	in MedicationAssistantInput,
) (*MedicationAssistantOutput, error) {
	return s.assistant.Run(ctx, in)
}

func (s *serviceImpl) ParsePrescription(
	ctx context.Context,
	in PrescriptionParserInput,
) (*PrescriptionParserOutput, error) {
	out, err := s.parser.Run(ctx, in)
	if err != nil {
		return nil, err
	}
	if out.Medications == nil {
		out.Medications = []ParsedMedication{}
	}
	return out, nil
}
