// Package notes implements the note visibility and search engine: the
// predicates, aggregation pipelines and pagination applied to every
// listing and search request. The engine is stateless; all state lives
// in the store behind the Store interface.
package notes

import (
	"context"
	"log/slog"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"golang.org/x/sync/errgroup"

	"notehub/internal/models"
)

// Store is the slice of the entity store the engine needs: pipeline
// execution over the notes and users collections plus a plain count.
// Errors are propagated to the caller unchanged; the engine never
// retries.
type Store interface {
	AggregateNotes(ctx context.Context, pipeline mongo.Pipeline) ([]models.NoteView, error)
	CountNotes(ctx context.Context, filter bson.M) (int64, error)
	AggregateUserMatches(ctx context.Context, pipeline mongo.Pipeline) ([]models.UserMatch, error)
}

const (
	defaultPage    = 1
	defaultPerPage = 5
)

// SortSpec is the caller-chosen sort for the listing path. Name must be
// one of createdAt, updatedAt, category or title and Order 1 or -1;
// both are checked at the request-validation boundary.
type SortSpec struct {
	Name  string `json:"name"`
	Order int    `json:"order"`
}

// ListParams drives the listing path.
type ListParams struct {
	Requester  bson.ObjectID
	Page       int
	PerPage    int
	NoPaginate bool
	Sort       SortSpec
}

// SearchParams drives the search path.
type SearchParams struct {
	Requester  bson.ObjectID
	Page       int
	PerPage    int
	SearchText string
	Filter     *FilterSpec
}

// Page is one page of joined note views plus the pagination envelope.
type Page struct {
	Notes       []models.NoteView `json:"notes"`
	TotalItems  int               `json:"totalItems"`
	CurrentPage int               `json:"currentPage"`
	HasNext     bool              `json:"hasNext"`
}

// SearchPage extends Page with the per-user match flags computed when
// the creators filter is in select-all mode; the slice is nil otherwise.
type SearchPage struct {
	Page
	UsersWithMatchedFilter []models.UserMatch `json:"usersWithMatchedFilter,omitempty"`
}

// Engine resolves which notes a requester may see and assembles
// listing and search responses.
type Engine struct {
	store Store
}

func NewEngine(store Store) *Engine {
	return &Engine{store: store}
}

// List runs the listing path: visibility filter only, caller-chosen
// sort, and in-memory pagination. The whole visible set is materialized
// so totalItems is its length; NoPaginate skips the slice and returns
// every visible note.
func (e *Engine) List(ctx context.Context, p ListParams) (*Page, error) {
	page, perPage := paginationDefaults(p.Page, p.PerPage)

	conditions := []bson.M{VisibilityPredicate(p.Requester)}
	pipeline := notePipeline(conditions, p.Requester)
	pipeline = append(pipeline, bson.D{{Key: "$sort", Value: bson.D{{Key: p.Sort.Name, Value: p.Sort.Order}}}})

	all, err := e.store.AggregateNotes(ctx, pipeline)
	if err != nil {
		return nil, err
	}

	totalItems := len(all)
	result := all
	if !p.NoPaginate {
		result = pageSlice(all, page, perPage)
	}
	if result == nil {
		result = []models.NoteView{}
	}

	slog.Info("fetched notes", "total_items", totalItems)
	return &Page{
		Notes:       result,
		TotalItems:  totalItems,
		CurrentPage: page,
		HasNext:     hasNext(totalItems, page, perPage),
	}, nil
}

// Search runs the search path: text predicate, compiled filters and
// visibility, fixed newest-first sort, store-side skip/limit. The total
// is counted from the full matched set, independent of the fetched
// page. When the creators filter is in select-all mode the per-user
// creator-match aggregation runs as well; the three store reads are
// independent and execute concurrently, without snapshot isolation
// between them.
func (e *Engine) Search(ctx context.Context, p SearchParams) (*SearchPage, error) {
	page, perPage := paginationDefaults(p.Page, p.PerPage)

	compiled, err := compileFilter(p.Filter, p.Requester)
	if err != nil {
		return nil, err
	}

	conditions := []bson.M{
		textPredicate(p.SearchText),
		VisibilityPredicate(p.Requester),
	}
	conditions = append(conditions, compiled.conditions...)
	if compiled.creator != nil {
		conditions = append(conditions, compiled.creator)
	}

	pipeline := notePipeline(conditions, p.Requester)
	pipeline = append(pipeline,
		bson.D{{Key: "$sort", Value: bson.D{{Key: "createdAt", Value: -1}}}},
		bson.D{{Key: "$skip", Value: (page - 1) * perPage}},
		bson.D{{Key: "$limit", Value: perPage}},
	)

	var (
		fetched []models.NoteView
		total   int64
		matches []models.UserMatch
	)
	group, groupCtx := errgroup.WithContext(ctx)
	group.Go(func() error {
		var err error
		fetched, err = e.store.AggregateNotes(groupCtx, pipeline)
		return err
	})
	group.Go(func() error {
		var err error
		total, err = e.store.CountNotes(groupCtx, bson.M{"$and": conditions})
		return err
	})
	if compiled.selectAll {
		// conditions carries no creator predicate in select-all mode, so
		// the sub-evaluation sees every other active predicate only.
		group.Go(func() error {
			var err error
			matches, err = e.store.AggregateUserMatches(groupCtx, creatorMatchPipeline(conditions))
			return err
		})
	}
	if err := group.Wait(); err != nil {
		return nil, err
	}

	if fetched == nil {
		fetched = []models.NoteView{}
	}
	totalItems := int(total)
	slog.Info("fetched searched notes", "total_items", totalItems)
	return &SearchPage{
		Page: Page{
			Notes:       fetched,
			TotalItems:  totalItems,
			CurrentPage: page,
			HasNext:     hasNext(totalItems, page, perPage),
		},
		UsersWithMatchedFilter: matches,
	}, nil
}

// notePipeline builds the stages shared by both paths: the AND of all
// match conditions, the derived isCreator flag, and the lookups
// resolving category, creator and assignedTo references.
func notePipeline(conditions []bson.M, requester bson.ObjectID) mongo.Pipeline {
	return mongo.Pipeline{
		bson.D{{Key: "$match", Value: bson.M{"$and": conditions}}},
		bson.D{{Key: "$addFields", Value: bson.M{
			"isCreator": bson.M{"$eq": bson.A{"$creator", requester}},
		}}},
		lookupStage("categories", "category", "category"),
		lookupStage("users", "creator", "creator"),
		lookupStage("users", "assignedTo", "assignedTo"),
	}
}

func lookupStage(from, localField, as string) bson.D {
	return bson.D{{Key: "$lookup", Value: bson.M{
		"from":         from,
		"localField":   localField,
		"foreignField": "_id",
		"as":           as,
	}}}
}

func paginationDefaults(page, perPage int) (int, int) {
	if page == 0 {
		page = defaultPage
	}
	if perPage == 0 {
		perPage = defaultPerPage
	}
	return page, perPage
}

func hasNext(totalItems, page, perPage int) bool {
	return totalItems-page*perPage > 0
}

// pageSlice cuts one page out of the materialized result set. Page and
// perPage are validated upstream; out-of-range pages yield an empty
// slice, never nil, so the response serializes as an empty array.
func pageSlice(all []models.NoteView, page, perPage int) []models.NoteView {
	start := (page - 1) * perPage
	if start < 0 || start >= len(all) {
		return []models.NoteView{}
	}
	end := start + perPage
	if end > len(all) {
		end = len(all)
	}
	return all[start:end]
}
