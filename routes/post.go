package routes

import (
	"net/http"

	"github.com/dalemusser/inkwell/httputil"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	defaultPostLimit = 9
	maxPostLimit     = 100
)

// PostList is the response of GET /getposts.
type PostList struct {
	Posts      []bson.M `json:"posts"`
	TotalPosts int64    `json:"totalPosts"`
}

// Post mounts the post group: a read-only listing over the "posts" collection.
//
//	GET /getposts?startIndex=0&limit=9&order=desc&userId=&category=&slug=
func Post(d Deps) http.Handler {
	r := chi.NewRouter()
	r.Get("/getposts", d.handle(func(w http.ResponseWriter, r *http.Request) error {
		start, err := intQuery(r, "startIndex", 0)
		if err != nil {
			return err
		}
		limit, err := intQuery(r, "limit", defaultPostLimit)
		if err != nil {
			return err
		}
		if limit > maxPostLimit {
			limit = maxPostLimit
		}
		sortDir := -1
		if r.URL.Query().Get("order") == "asc" {
			sortDir = 1
		}

		filter := bson.M{}
		for _, field := range []string{"userId", "category", "slug"} {
			if v := r.URL.Query().Get(field); v != "" {
				filter[field] = v
			}
		}

		coll, err := d.DB.Collection("posts")
		if err != nil {
			return dbError(err)
		}

		ctx := r.Context()
		opts := options.Find().
			SetSort(bson.D{{Key: "updatedAt", Value: sortDir}}).
			SetSkip(int64(start)).
			SetLimit(int64(limit))
		cur, err := coll.Find(ctx, filter, opts)
		if err != nil {
			return dbError(err)
		}
		posts := make([]bson.M, 0, limit)
		if err := cur.All(ctx, &posts); err != nil {
			return dbError(err)
		}

		total, err := coll.CountDocuments(ctx, filter)
		if err != nil {
			return dbError(err)
		}

		httputil.WriteJSON(w, http.StatusOK, PostList{Posts: posts, TotalPosts: total})
		return nil
	}))
	return r
}
