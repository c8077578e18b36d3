package service

import (
	"context"
	"net/url"
	"strings"

	"go.uber.org/zap"

	"github.com/noah-isme/talleres-api/internal/dto"
	"github.com/noah-isme/talleres-api/internal/models"
	appErrors "github.com/noah-isme/talleres-api/pkg/errors"
	"github.com/noah-isme/talleres-api/pkg/export"
	"github.com/noah-isme/talleres-api/pkg/qrcode"
)

const confirmationTitle = "Constancia de Matrícula"

// componentEscaper turns QueryEscape output into encodeURIComponent output: spaces are %20 and
// the marks !'()* stay literal.
var componentEscaper = strings.NewReplacer(
	"+", "%20",
	"%21", "!",
	"%27", "'",
	"%28", "(",
	"%29", ")",
	"%2A", "*",
)

type enrollmentGetter interface {
	Get(ctx context.Context, id string) (*models.Enrollment, error)
}

type confirmationRenderer interface {
	RenderConfirmation(doc export.Confirmation) ([]byte, error)
}

// ConfirmationConfig tunes the confirmation surface.
type ConfirmationConfig struct {
	Institution  string
	ShareBaseURL string
	QRSize       int
}

// ConfirmationDocument is a rendered confirmation ready for download.
type ConfirmationDocument struct {
	Filename string
	Data     []byte
}

// ConfirmationService derives the QR payload, share link and printable document of an enrollment.
// It never writes to the store.
type ConfirmationService struct {
	enrollments enrollmentGetter
	pdf         confirmationRenderer
	encodeQR    func(payload string, size int) ([]byte, error)
	cfg         ConfirmationConfig
	logger      *zap.Logger
}

// NewConfirmationService constructs ConfirmationService.
func NewConfirmationService(enrollments enrollmentGetter, pdf confirmationRenderer, cfg ConfirmationConfig, logger *zap.Logger) *ConfirmationService {
	if pdf == nil {
		pdf = export.NewPDFExporter()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.ShareBaseURL == "" {
		cfg.ShareBaseURL = "https://wa.me/"
	}
	if cfg.QRSize <= 0 {
		cfg.QRSize = qrcode.DefaultSize
	}
	return &ConfirmationService{enrollments: enrollments, pdf: pdf, encodeQR: qrcode.EncodePNG, cfg: cfg, logger: logger}
}

// Payload is the QR token: student DNI and enrollment type joined by a hyphen.
// Two enrollments of the same student under the same type share a payload.
func (s *ConfirmationService) Payload(e models.Enrollment) string {
	return e.Student.DNI + "-" + e.EnrollmentTypeID
}

// Summary is the plain-text message offered for sharing.
func (s *ConfirmationService) Summary(e models.Enrollment) string {
	lines := []string{
		"Matrícula registrada:",
		"Alumno: " + e.Student.FullName(),
		"DNI: " + e.Student.DNI,
		"Taller: " + e.Workshop.Name,
		"Código QR: " + s.Payload(e),
	}
	return strings.Join(lines, "\n")
}

// ShareURL builds the messaging deep link carrying the summary as its text parameter.
func (s *ConfirmationService) ShareURL(e models.Enrollment) string {
	text := componentEscaper.Replace(url.QueryEscape(s.Summary(e)))
	sep := "?"
	if strings.Contains(s.cfg.ShareBaseURL, "?") {
		sep = "&"
	}
	return s.cfg.ShareBaseURL + sep + "text=" + text
}

// DocumentName is the download name of the printable confirmation.
func (s *ConfirmationService) DocumentName(e models.Enrollment) string {
	return "matricula_" + e.Student.DNI + ".pdf"
}

// Describe returns everything the confirmation panel shows.
func (s *ConfirmationService) Describe(ctx context.Context, id string) (*dto.ConfirmationResponse, error) {
	e, err := s.enrollments.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return &dto.ConfirmationResponse{
		Enrollment:   *e,
		QRPayload:    s.Payload(*e),
		Summary:      s.Summary(*e),
		ShareURL:     s.ShareURL(*e),
		DocumentName: s.DocumentName(*e),
	}, nil
}

// QRCode renders the payload of an enrollment as PNG.
func (s *ConfirmationService) QRCode(ctx context.Context, id string) ([]byte, error) {
	e, err := s.enrollments.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	png, err := s.encodeQR(s.Payload(*e), s.cfg.QRSize)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render qr code")
	}
	return png, nil
}

// Document renders the single-page confirmation PDF.
func (s *ConfirmationService) Document(ctx context.Context, id string) (*ConfirmationDocument, error) {
	e, err := s.enrollments.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	png, err := s.encodeQR(s.Payload(*e), s.cfg.QRSize)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render qr code")
	}
	data, err := s.pdf.RenderConfirmation(export.Confirmation{
		Institution: s.cfg.Institution,
		Title:       confirmationTitle,
		QRCode:      png,
		Fields: []export.Field{
			{Label: "DNI", Value: e.Student.DNI},
			{Label: "Nombre", Value: e.Student.Nombre},
			{Label: "Apellidos", Value: e.Student.Surnames()},
			{Label: "Taller", Value: e.Workshop.Name},
			{Label: "Horario", Value: e.Horario},
			{Label: "Tipo de Matrícula", Value: e.EnrollmentTypeID},
		},
		Footer: "Código QR: " + s.Payload(*e),
	})
	if err != nil {
		s.logger.Error("confirmation render failed", zap.String("enrollment_id", e.ID), zap.Error(err))
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render confirmation")
	}
	return &ConfirmationDocument{Filename: s.DocumentName(*e), Data: data}, nil
}
