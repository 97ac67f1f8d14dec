package routes

import (
	"net/http"

	"github.com/dalemusser/inkwell/httputil"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Comment mounts the comment group: a read-only listing of a post's comments,
// newest first.
//
//	GET /getPostComments/{postId}
func Comment(d Deps) http.Handler {
	r := chi.NewRouter()
	r.Get("/getPostComments/{postId}", d.handle(func(w http.ResponseWriter, r *http.Request) error {
		postID := chi.URLParam(r, "postId")

		coll, err := d.DB.Collection("comments")
		if err != nil {
			return dbError(err)
		}

		ctx := r.Context()
		opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
		cur, err := coll.Find(ctx, bson.M{"postId": postID}, opts)
		if err != nil {
			return dbError(err)
		}
		comments := make([]bson.M, 0)
		if err := cur.All(ctx, &comments); err != nil {
			return dbError(err)
		}

		httputil.WriteJSON(w, http.StatusOK, comments)
		return nil
	}))
	return r
}
