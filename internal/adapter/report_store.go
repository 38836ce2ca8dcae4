package adapter

import (
	"context"
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	m "testsplit.dev/pkg/testsplit/internal/model"
)

const reportFileName = "report.yaml"

var (
	// ErrReportNotFound is returned when no report was saved in a directory.
	ErrReportNotFound = errors.New("report not found")
	// ErrUnsupportedReportVersion is returned for reports written by a newer release.
	ErrUnsupportedReportVersion = errors.New("unsupported report version")
)

// ReportStore persists scan reports in a reports directory.
type ReportStore interface {
	SaveReport(ctx context.Context, dir m.Path, report m.Report) error
	LoadReport(ctx context.Context, dir m.Path) (m.Report, error)
}

type yamlReportStore struct {
	fs SourceFSAdapter
}

// NewReportStore returns a ReportStore writing YAML through fs.
func NewReportStore(fs SourceFSAdapter) ReportStore {
	return &yamlReportStore{fs: fs}
}

func (s *yamlReportStore) SaveReport(ctx context.Context, dir m.Path, report m.Report) error {
	if err := s.fs.MkdirAll(ctx, dir); err != nil {
		return fmt.Errorf("create reports dir %s: %w", dir, err)
	}

	content, err := yaml.Marshal(report)
	if err != nil {
		return fmt.Errorf("encode report: %w", err)
	}

	path := s.fs.JoinPath(ctx, string(dir), reportFileName)
	if err := s.fs.WriteFile(ctx, path, content, 0o600); err != nil {
		return fmt.Errorf("write report %s: %w", path, err)
	}

	return nil
}

func (s *yamlReportStore) LoadReport(ctx context.Context, dir m.Path) (m.Report, error) {
	path := s.fs.JoinPath(ctx, string(dir), reportFileName)

	content, err := s.fs.ReadFile(ctx, path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return m.Report{}, fmt.Errorf("%w: %s", ErrReportNotFound, path)
		}

		return m.Report{}, fmt.Errorf("read report %s: %w", path, err)
	}

	var report m.Report
	if err := yaml.Unmarshal(content, &report); err != nil {
		return m.Report{}, fmt.Errorf("decode report %s: %w", path, err)
	}

	if report.Version > m.ReportVersion {
		return m.Report{}, fmt.Errorf("%w: %s has version %d (max %d)",
			ErrUnsupportedReportVersion, path, report.Version, m.ReportVersion)
	}

	return report, nil
}
