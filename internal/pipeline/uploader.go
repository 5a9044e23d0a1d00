package pipeline

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/wikicurator/artbot/internal/images"
	"github.com/wikicurator/artbot/internal/model"
	"github.com/wikicurator/artbot/internal/registry"
)

// Uploader pushes assembled records into the registry. Existing statements
// are never overwritten; the uploader only fills gaps.
type Uploader struct {
	wikibase *registry.Wikibase
	wayback  *registry.Wayback // nil disables snapshots
	prober   *images.Prober    // nil disables image size checks
	existing map[string]string // accession number -> item id
	create   bool              // create items for unknown accession numbers
}

// NewUploader creates an uploader over the known accession numbers
func NewUploader(wikibase *registry.Wikibase, wayback *registry.Wayback,
	prober *images.Prober, existing map[string]string, create bool) *Uploader {
	return &Uploader{
		wikibase: wikibase,
		wayback:  wayback,
		prober:   prober,
		existing: existing,
		create:   create,
	}
}

// UploadResult describes what happened to one record
type UploadResult struct {
	ItemQID string
	Created bool
	Added   int // statements added
}

// Upload creates or updates the item for one record. A record whose item
// does not exist yet is only touched in create mode.
func (u *Uploader) Upload(ctx context.Context, rec *model.UploadRecord) (*UploadResult, error) {
	result := &UploadResult{}

	qid, exists := u.existing[rec.ID]
	if !exists {
		if !u.create {
			slog.Info("no item to update", "id", rec.ID)
			return result, nil
		}

		var err error
		qid, err = u.createItem(ctx, rec)
		if err != nil {
			return nil, err
		}
		result.Created = true
		u.existing[rec.ID] = qid

		if u.wayback != nil {
			u.wayback.Snapshot(ctx, append([]string{rec.RefURL}, rec.DescribedByURLs...))
		}
	}
	result.ItemQID = qid

	if !result.Created {
		if err := u.fillTerms(ctx, qid, rec); err != nil {
			return nil, err
		}
	}

	claims, err := u.wikibase.Claims(ctx, qid)
	if err != nil {
		return nil, fmt.Errorf("read claims of %s: %w", qid, err)
	}

	for _, stmt := range registry.Plan(rec) {
		if u.covered(claims, stmt) {
			continue
		}
		if stmt.Property == registry.PropImageSuggested && !u.wantImage(ctx, rec, claims) {
			continue
		}

		if err := u.addStatement(ctx, qid, stmt); err != nil {
			return nil, err
		}
		result.Added++
	}

	slog.Info("uploaded record", "id", rec.ID, "item", qid,
		"created", result.Created, "statements", result.Added)
	return result, nil
}

func (u *Uploader) createItem(ctx context.Context, rec *model.UploadRecord) (string, error) {
	summary := fmt.Sprintf("creating new item for %s %s", rec.CollectionShort, rec.ID)

	qid, err := u.wikibase.CreateItem(ctx, rec.Labels, rec.Descriptions, summary)
	if err == nil {
		return qid, nil
	}
	if !registry.IsLabelCollision(err) {
		return "", fmt.Errorf("create item for %s: %w", rec.ID, err)
	}

	// Another work shares label and description. Disambiguate with the
	// collection short name and accession number and try once more.
	disambiguated := make(map[string]string, len(rec.Descriptions))
	for lang, description := range rec.Descriptions {
		disambiguated[lang] = fmt.Sprintf("%s (%s %s)", description, rec.CollectionShort, rec.ID)
	}

	qid, err = u.wikibase.CreateItem(ctx, rec.Labels, disambiguated, summary)
	if err != nil {
		return "", fmt.Errorf("create item for %s after collision: %w", rec.ID, err)
	}
	return qid, nil
}

// fillTerms adds the record's labels and descriptions in languages the item
// lacks. Existing terms are never rewritten.
func (u *Uploader) fillTerms(ctx context.Context, qid string, rec *model.UploadRecord) error {
	labels, descriptions, err := u.wikibase.Terms(ctx, qid)
	if err != nil {
		return fmt.Errorf("read terms of %s: %w", qid, err)
	}

	for lang, label := range rec.Labels {
		if _, has := labels[lang]; has {
			continue
		}
		err := u.wikibase.SetLabel(ctx, qid, lang, label, "adding missing label")
		if err != nil {
			if registry.IsLabelCollision(err) {
				slog.Warn("label collision, leaving item alone", "item", qid, "language", lang)
				continue
			}
			return err
		}
	}

	for lang, description := range rec.Descriptions {
		if _, has := descriptions[lang]; has {
			continue
		}
		err := u.wikibase.SetDescription(ctx, qid, lang, description, "adding missing description")
		if err == nil {
			continue
		}
		if !registry.IsLabelCollision(err) {
			return err
		}

		// Another item holds the same label and description. Disambiguate
		// with the collection short name and accession number.
		disambiguated := fmt.Sprintf("%s (%s %s)", description, rec.CollectionShort, rec.ID)
		if err := u.wikibase.SetDescription(ctx, qid, lang, disambiguated, "adding missing description"); err != nil {
			return err
		}
	}
	return nil
}

// covered reports whether the item already says what the statement would.
// Most properties are one-shot: any existing claim wins. Per-value
// properties (described-at, identifiers) compare values, so a second
// catalogue URL or a second accession number still goes in.
func (u *Uploader) covered(claims map[string][]registry.Claim, stmt registry.Statement) bool {
	existing, ok := claims[stmt.Property]
	if !ok || len(existing) == 0 {
		return false
	}
	if !stmt.PerValue {
		return true
	}

	for _, claim := range existing {
		if claim.StringVal != "" && claim.StringVal == stmt.Value.Text {
			if collectionMismatch(claim, stmt) {
				continue
			}
			return true
		}
		if claim.TargetQID != "" && claim.TargetQID == stmt.Value.QID {
			return true
		}
	}
	return false
}

// collectionMismatch reports whether the existing claim files the same value
// under a different collection. The same accession number can legitimately
// recur across collections, so only a matching collection qualifier covers
// the planned statement. Unqualified existing claims cover any collection.
func collectionMismatch(claim registry.Claim, stmt registry.Statement) bool {
	var wanted string
	for _, qual := range stmt.Qualifiers {
		if qual.Property == registry.PropCollection {
			wanted = qual.Value.QID
		}
	}
	if wanted == "" {
		return false
	}

	qualifiers := claim.Qualifiers[registry.PropCollection]
	if len(qualifiers) == 0 {
		return false
	}
	for _, qid := range qualifiers {
		if qid == wanted {
			return false
		}
	}
	return true
}

// wantImage decides whether to suggest the record's image. Non-free items
// never get a suggestion. Items that already carry an image only get one
// when the record asks for an upgrade and the new file is enough of an
// improvement over every image already there.
func (u *Uploader) wantImage(ctx context.Context, rec *model.UploadRecord, claims map[string][]registry.Claim) bool {
	if rec.Image == nil {
		return false
	}
	if _, nonFree := claims[registry.PropNonFreeImage]; nonFree {
		return false
	}
	current, has := claims[registry.PropImage]
	if !has {
		return true
	}
	if rec.Image.Force {
		return true
	}
	if !rec.Image.Upgrade || u.prober == nil {
		return false
	}

	size, err := u.prober.Size(ctx, rec.Image.URL)
	if err != nil {
		slog.Warn("image probe failed", "id", rec.ID, "url", rec.Image.URL, "error", err)
		return false
	}
	for _, claim := range current {
		currentSize, err := u.wikibase.FileSize(ctx, claim.StringVal)
		if err != nil {
			slog.Warn("current image size unknown", "id", rec.ID, "file", claim.StringVal, "error", err)
			return false
		}
		if !images.ShouldReplace(size, currentSize) {
			return false
		}
	}
	return true
}

func (u *Uploader) addStatement(ctx context.Context, qid string, stmt registry.Statement) error {
	claimID, err := u.wikibase.AddClaim(ctx, qid, stmt.Property, stmt.Value, "adding catalogue statement")
	if err != nil {
		return err
	}

	for _, qual := range stmt.Qualifiers {
		if err := u.wikibase.AddQualifier(ctx, claimID, qual.Property, qual.Value); err != nil {
			return err
		}
	}

	if stmt.RefURL != "" {
		if err := u.wikibase.AddReference(ctx, claimID, stmt.RefURL); err != nil {
			return err
		}
	}
	return nil
}
