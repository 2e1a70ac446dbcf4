package download

import (
	"archive/zip"
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"newsroom/internal/embeds"
	"newsroom/internal/feeds"
	"newsroom/internal/models"
	"newsroom/internal/processing"
)

// ItemGetter fetches one item by id from the content store.
type ItemGetter interface {
	GetItem(ctx context.Context, id string) (*models.Item, error)
}

// EntitlementResolver resolves the permission profile and permitted
// product codes of a principal.
type EntitlementResolver interface {
	Resolve(ctx context.Context, principal models.Principal) (models.Permissions, error)
	PermittedProducts(ctx context.Context, companyID, section string) ([]string, error)
}

// HistoryRecorder appends one audit record per successful export.
type HistoryRecorder interface {
	RecordDownload(ctx context.Context, rec models.HistoryRecord) error
}

// Orchestrator assembles multi-item download archives. Each item is
// fetched, permission-filtered, serialized and added to the archive
// independently; one bad item never sinks the batch.
type Orchestrator struct {
	items            ItemGetter
	resolver         EntitlementResolver
	serializer       *feeds.Serializer
	history          HistoryRecorder
	productFiltering bool
	log              *slog.Logger
	now              func() time.Time
}

// New builds an orchestrator.
func New(items ItemGetter, resolver EntitlementResolver, serializer *feeds.Serializer, history HistoryRecorder, productFiltering bool, log *slog.Logger) *Orchestrator {
	return &Orchestrator{
		items:            items,
		resolver:         resolver,
		serializer:       serializer,
		history:          history,
		productFiltering: productFiltering,
		log:              log,
		now:              time.Now,
	}
}

// ArchiveName is the attachment filename for an export started now.
func (o *Orchestrator) ArchiveName() string {
	return o.now().UTC().Format("200601021504") + "-newsroom.zip"
}

// Export builds a zip archive with one serialized file per item, in the
// input order. Per-item failures are logged with the item id and skipped.
// Every file that makes it into the archive gets an audit record.
func (o *Orchestrator) Export(ctx context.Context, ids []string, format feeds.Format, section string, principal models.Principal, token string) ([]byte, error) {
	if format == feeds.FormatUnsupported {
		return nil, feeds.ErrUnsupportedFormat
	}

	perms, err := o.resolver.Resolve(ctx, principal)
	if err != nil {
		return nil, fmt.Errorf("resolve entitlements: %w", err)
	}

	opts := embeds.Options{}
	if o.productFiltering {
		permitted, err := o.resolver.PermittedProducts(ctx, principal.CompanyID, section)
		if err != nil {
			return nil, fmt.Errorf("resolve products: %w", err)
		}
		opts = embeds.Options{ApplyProductGate: true, PermittedProducts: permitted}
	}

	var buf bytes.Buffer
	archive := zip.NewWriter(&buf)

	for _, id := range ids {
		item, err := o.items.GetItem(ctx, id)
		if err != nil || item == nil {
			o.log.Error("fetch item failed, skipping", slog.String("item", id), slog.Any("err", err))
			continue
		}

		filtered, err := embeds.Rewrite(item, perms, opts)
		if err != nil {
			o.log.Error("filter item failed, skipping", slog.String("item", id), slog.Any("err", err))
			continue
		}

		payload, err := o.serializer.SerializeItem(format, filtered, token)
		if err != nil {
			o.log.Error("serialize item failed, skipping", slog.String("item", id), slog.Any("err", err))
			continue
		}

		f, err := archive.Create(Filename(filtered, format))
		if err != nil {
			return nil, fmt.Errorf("create archive entry: %w", err)
		}
		if _, err := f.Write(payload); err != nil {
			return nil, fmt.Errorf("write archive entry: %w", err)
		}

		o.recordDownload(ctx, filtered, principal, section)
	}

	if err := archive.Close(); err != nil {
		return nil, fmt.Errorf("close archive: %w", err)
	}
	return buf.Bytes(), nil
}

// Filename follows the <YYYYMMDDHHMM>-<slug>.<ext> pattern based on the
// item's version time.
func Filename(item *models.Item, format feeds.Format) string {
	slug := item.Slugline
	if slug == "" {
		slug = item.Headline
	}
	return item.VersionCreated.UTC().Format("200601021504") + "-" + processing.Slugify(slug) + "." + format.Ext()
}

func (o *Orchestrator) recordDownload(ctx context.Context, item *models.Item, principal models.Principal, section string) {
	rec := models.HistoryRecord{
		ID:             uuid.NewString(),
		Action:         "download",
		UserID:         principal.UserID,
		CompanyID:      principal.CompanyID,
		ItemID:         item.ID,
		Version:        item.Version,
		Section:        section,
		VersionCreated: o.now().UTC(),
	}
	if err := o.history.RecordDownload(ctx, rec); err != nil {
		o.log.Error("record download history",
			slog.String("item", item.ID),
			slog.Any("err", err),
		)
	}
}
