package content

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/mastermind-creat/techsafi/domain/events"
	"github.com/mastermind-creat/techsafi/pkg/apperror"
)

// BundleFormat is the version of the export file layout.
const BundleFormat = 1

// Bundle is a full export of the stored documents, used by snapshots and by
// contentctl export/import.
type Bundle struct {
	Format     int              `json:"format"`
	ExportedAt time.Time        `json:"exportedAt"`
	Documents  []BundleDocument `json:"documents"`
}

// BundleDocument is one domain inside a Bundle.
type BundleDocument struct {
	Domain        string          `json:"domain"`
	SchemaVersion int             `json:"schemaVersion"`
	Revision      int64           `json:"revision,omitempty"`
	Default       bool            `json:"default,omitempty"`
	Data          json.RawMessage `json:"data"`
}

// Export collects every stored document. With includeDefaults, domains that
// have never been saved are exported with their default value.
func (s *Service) Export(ctx context.Context, includeDefaults bool) (*Bundle, error) {
	b := &Bundle{Format: BundleFormat, ExportedAt: time.Now().UTC()}
	for _, d := range Domains() {
		doc, err := s.Get(ctx, d.Name())
		if err != nil {
			return nil, fmt.Errorf("export %s: %w", d.Name(), err)
		}
		if doc.Default && !includeDefaults {
			continue
		}
		b.Documents = append(b.Documents, BundleDocument{
			Domain:        doc.Domain,
			SchemaVersion: doc.SchemaVersion,
			Revision:      doc.Revision,
			Default:       doc.Default,
			Data:          doc.Data,
		})
	}
	return b, nil
}

// Import writes every document of b as a new revision. Documents written with
// an older schema are migrated first. It stops at the first failure and
// reports how many documents were written.
func (s *Service) Import(ctx context.Context, b *Bundle, actor string) (int, error) {
	if b.Format != BundleFormat {
		return 0, apperror.NewBadRequest(fmt.Sprintf("unsupported bundle format %d", b.Format))
	}
	n := 0
	var written []string
	defer func() { s.ItemsChanged(events.EntityContent, written, actor) }()
	for _, bd := range b.Documents {
		d, err := lookup(bd.Domain)
		if err != nil {
			return n, err
		}
		version := bd.SchemaVersion
		if version == 0 {
			version = d.SchemaVersion()
		}
		data, err := d.upgrade(version, bd.Data)
		if err != nil {
			return n, apperror.ErrValidation.WithMessage(fmt.Sprintf("%s: %v", bd.Domain, err))
		}
		if _, err := s.Put(ctx, bd.Domain, data, actor); err != nil {
			return n, err
		}
		written = append(written, bd.Domain)
		n++
	}
	return n, nil
}
