package http_test

import (
	"context"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/mongodb"

	http "github.com/askage/askage-service/internal/http"
	"github.com/askage/askage-service/internal/log"
	"github.com/askage/askage-service/internal/oauth"
	"github.com/askage/askage-service/internal/repo"
)

type testEnv struct {
	T      *testing.T
	Ctx    context.Context
	Mongo  *mongodb.MongoDBContainer
	Store  *repo.Store
	Router *gin.Engine
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	ctx := context.Background()

	mc, err := mongodb.RunContainer(ctx,
		testcontainers.WithImage("mongo:6"),
	)
	if err != nil {
		t.Fatalf("mongo container: %v", err)
	}

	uri, err := mc.ConnectionString(ctx)
	if err != nil {
		t.Fatalf("mongo uri: %v", err)
	}

	if _, err := log.Init(false); err != nil {
		t.Fatalf("log init: %v", err)
	}

	store, err := repo.NewStore(ctx, uri, "askage_api_test")
	if err != nil {
		t.Fatalf("store: %v", err)
	}
	if err := store.EnsureIndexes(ctx); err != nil {
		t.Fatalf("indexes: %v", err)
	}

	// no Redis, no Rabbit, Google never reached in these tests
	google := oauth.NewGoogle("id", "secret", "http://localhost/cb", "test-state")
	h := http.NewHandler(store, google, nil, 0, nil)

	gin.SetMode(gin.TestMode)
	return &testEnv{T: t, Ctx: ctx, Mongo: mc, Store: store, Router: http.NewRouter(h)}
}

func (e *testEnv) Close() {
	if e.Store != nil {
		_ = e.Store.Close(e.Ctx)
	}
	if e.Mongo != nil {
		_ = e.Mongo.Terminate(e.Ctx)
	}
}
