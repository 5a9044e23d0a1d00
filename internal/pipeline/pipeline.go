package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"github.com/wikicurator/artbot/internal/assemble"
	"github.com/wikicurator/artbot/internal/cache"
	"github.com/wikicurator/artbot/internal/images"
	"github.com/wikicurator/artbot/internal/llm"
	"github.com/wikicurator/artbot/internal/model"
	"github.com/wikicurator/artbot/internal/normalize"
	"github.com/wikicurator/artbot/internal/registry"
	"github.com/wikicurator/artbot/internal/source"
	"github.com/wikicurator/artbot/internal/worker"
)

// Options select what one load run does
type Options struct {
	Venue          string
	Count          int    // 0 loads everything
	Filter         string // single artwork id
	FilterCategory string
	Trial          bool // render instead of uploading
	Update         bool // add statements to existing items, create nothing
	NoImageUpload  bool
}

// Summary is what a run did
type Summary struct {
	Fetched   int
	Assembled int
	Skipped   int
	Created   int
	Uploaded  int
	Failed    int
}

// Pipeline wires the record source, the normalizers, and the registry
// clients into one load run
type Pipeline struct {
	cfg        *model.Config
	limiter    *worker.Limiter
	cache      cache.Cache
	source     *source.Client
	sparql     *registry.SPARQLClient
	wikibase   *registry.Wikibase
	wayback    *registry.Wayback
	prober     *images.Prober
	extractor  *normalize.MediumExtractor
	categories assemble.Categories
	describer  *llm.Describer
	renderer   *Renderer
}

// New builds a pipeline from configuration
func New(cfg *model.Config) (*Pipeline, error) {
	limiter := worker.NewLimiter(cfg.RateLimit.RequestsPerSecond, cfg.RateLimit.Burst)

	var c cache.Cache
	if cfg.Cache.Enabled {
		c = cache.NewLayeredCache(cfg.Cache.MemoryTTL, cfg.Cache.Dir, cfg.Cache.DiskTTL)
	}

	ruleset := normalize.DefaultRuleset()
	if cfg.RulesFile != "" {
		loaded, err := normalize.LoadRuleset(cfg.RulesFile)
		if err != nil {
			return nil, fmt.Errorf("load rules: %w", err)
		}
		ruleset = loaded
	}
	extractor, err := normalize.NewMediumExtractor(ruleset)
	if err != nil {
		return nil, fmt.Errorf("compile rules: %w", err)
	}

	categories := assemble.DefaultCategories()
	if cfg.CategoriesFile != "" {
		loaded, err := assemble.LoadCategories(cfg.CategoriesFile)
		if err != nil {
			return nil, fmt.Errorf("load categories: %w", err)
		}
		categories = loaded
	}

	provider, err := llm.NewProvider(cfg.LLM)
	if err != nil {
		return nil, fmt.Errorf("llm provider: %w", err)
	}

	renderer, err := NewRenderer(cfg.Output.Dir, cfg.Output.Format)
	if err != nil {
		return nil, err
	}

	return &Pipeline{
		cfg:        cfg,
		limiter:    limiter,
		cache:      c,
		source:     source.NewClient(cfg.HTTP, cfg.Source.BaseURL, cfg.Source.Instance, c, limiter),
		sparql:     registry.NewSPARQLClient(cfg.Registry.SPARQLURL, cfg.HTTP.UserAgent, cfg.HTTP.Timeout, c, limiter),
		wikibase:   registry.NewWikibase(cfg.Registry.APIURL, cfg.HTTP.UserAgent, cfg.HTTP.Timeout, limiter),
		wayback:    registry.NewWayback(cfg.Registry.WaybackURL, cfg.HTTP.UserAgent, cfg.HTTP.Timeout, limiter),
		prober:     images.NewProber(cfg.HTTP.Timeout, cfg.HTTP.UserAgent, limiter),
		extractor:  extractor,
		categories: categories,
		describer:  llm.NewDescriber(provider),
		renderer:   renderer,
	}, nil
}

// Run loads one venue: fetch, assemble, and either render (trial) or upload
func (p *Pipeline) Run(ctx context.Context, opts Options) (*Summary, error) {
	summary := &Summary{}

	venue, err := p.source.Venue(ctx, opts.Venue)
	if err != nil {
		return nil, err
	}
	slog.Info("resolved venue", "venue", venue.VenueID, "collection", venue.CollectionQID)

	artworks, artists, err := p.fetchRecords(ctx, venue.VenueID, opts.Filter)
	if err != nil {
		return nil, err
	}
	summary.Fetched = len(artworks)
	slog.Info("fetched records", "artworks", len(artworks), "artists", len(artists))

	lists, err := source.LoadLists(p.cfg.Source.ListsDir, strings.ToLower(venue.VenueID))
	if err != nil {
		return nil, fmt.Errorf("load exclusion lists: %w", err)
	}

	existing, err := p.sparql.ExistingItems(ctx, venue.CollectionQID, p.cfg.Registry.IDProperty)
	if err != nil {
		return nil, fmt.Errorf("query existing items: %w", err)
	}
	slog.Info("queried registry", "existing", len(existing))

	assembler := assemble.New(venue, artists, lists, existing, p.extractor, p.categories, assemble.Options{
		Locale:         p.cfg.Source.Locale,
		IDProperty:     p.cfg.Registry.IDProperty,
		GalleryBaseURL: p.cfg.Source.GalleryBaseURL,
		FilterCategory: opts.FilterCategory,
		Update:         opts.Update,
		NoImageUpload:  opts.NoImageUpload,
	})

	records := p.assembleAll(assembler, artworks, summary)
	if opts.Count > 0 && len(records) > opts.Count {
		records = records[:opts.Count]
	}
	summary.Assembled = len(records)

	if opts.Trial {
		if err := p.renderer.Render(records); err != nil {
			return nil, err
		}
		slog.Info("trial run complete", "records", len(records))
		return summary, nil
	}

	uploader := NewUploader(p.wikibase, p.wayback, p.prober, existing, !opts.Update)
	for _, rec := range records {
		result, err := uploader.Upload(ctx, rec)
		if err != nil {
			if ctx.Err() != nil {
				return summary, ctx.Err()
			}
			slog.Error("upload failed", "id", rec.ID, "error", err)
			summary.Failed++
			continue
		}
		if result.Created {
			summary.Created++
		}
		if result.ItemQID != "" {
			summary.Uploaded++
		}
	}

	slog.Info("load complete", "assembled", summary.Assembled, "skipped", summary.Skipped,
		"created", summary.Created, "uploaded", summary.Uploaded, "failed", summary.Failed)
	return summary, nil
}

// fetchRecords pulls the artworks and the artists they reference. A filtered
// load only needs the one artwork's artist; a full load takes the venue's
// master artist records.
func (p *Pipeline) fetchRecords(ctx context.Context, venueID, filter string) (map[string]model.Artwork, map[string]model.Artist, error) {
	artworks, err := p.source.Artworks(ctx, venueID, source.ArtworkQuery{Filter: filter, WithImage: true})
	if err != nil {
		return nil, nil, err
	}
	if len(artworks) == 0 {
		return nil, nil, fmt.Errorf("no artworks for venue %s", venueID)
	}

	if filter != "" {
		var artistID string
		for _, artwork := range artworks {
			artistID = artwork.ArtistID
			break
		}
		artists, err := p.source.Artists(ctx, "", source.ArtistQuery{Filter: artistID})
		if err != nil {
			return nil, nil, err
		}
		return artworks, artists, nil
	}

	artists, err := p.source.Artists(ctx, venueID, source.ArtistQuery{Master: true})
	if err != nil {
		return nil, nil, err
	}
	return artworks, artists, nil
}

// assembleJob adapts one artwork to the worker pool
type assembleJob struct {
	assembler *assemble.Assembler
	describer *llm.Describer
	locale    string
	language  string
	artwork   model.Artwork
}

type assembleResult struct {
	record *model.UploadRecord
	err    error
}

func (r *assembleResult) GetError() error { return r.err }

func (j *assembleJob) Execute(ctx context.Context) worker.Result {
	rec, err := j.assembler.Assemble(&j.artwork)
	if err != nil {
		return &assembleResult{err: err}
	}

	// The describer only fills a hole; the mechanical description wins
	if j.describer.Enabled() && rec.Descriptions[j.language] == "" {
		suggestion, err := j.describer.Suggest(ctx, llm.DescribeRequest{
			Category:   j.artwork.Category,
			ArtistName: rec.CreatorName,
			Title:      rec.Title[j.language],
			Medium:     j.artwork.Medium[j.locale],
			Date:       j.artwork.Date[j.locale],
		})
		if err != nil {
			slog.Warn("description suggestion failed", "id", rec.ID, "error", err)
		} else if suggestion != "" {
			if rec.Descriptions == nil {
				rec.Descriptions = map[string]string{}
			}
			rec.Descriptions[j.language] = suggestion
		}
	}

	return &assembleResult{record: rec}
}

// assembleAll runs assembly across the worker pool and returns the records
// in stable accession-number order
func (p *Pipeline) assembleAll(assembler *assemble.Assembler,
	artworks map[string]model.Artwork, summary *Summary) []*model.UploadRecord {
	jobs := make([]worker.Job, 0, len(artworks))
	for _, artwork := range artworks {
		jobs = append(jobs, &assembleJob{
			assembler: assembler,
			describer: p.describer,
			locale:    p.cfg.Source.Locale,
			language:  languageOf(p.cfg.Source.Locale),
			artwork:   artwork,
		})
	}

	pool := worker.NewPool(p.cfg.Concurrency.Workers)
	pool.Start()
	results := pool.Process(jobs)

	var records []*model.UploadRecord
	for _, result := range results {
		res := result.(*assembleResult)
		if res.err != nil {
			if assemble.IsSkip(res.err) {
				slog.Warn(res.err.Error())
				summary.Skipped++
				continue
			}
			slog.Error("assembly failed", "error", res.err)
			summary.Failed++
			continue
		}
		records = append(records, res.record)
	}

	sort.Slice(records, func(i, j int) bool { return records[i].ID < records[j].ID })
	return records
}

// languageOf reduces a locale like en-GB to its language code
func languageOf(locale string) string {
	if idx := strings.IndexByte(locale, '-'); idx >= 0 {
		return locale[:idx]
	}
	return locale
}
