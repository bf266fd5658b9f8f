package repo_test

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/askage/askage-service/internal/repo"
)

func TestConnect_OneHandlePerProcess(t *testing.T) {
	env := newTestEnv(t)
	defer env.Close()

	uri, err := env.Mongo.ConnectionString(env.Ctx)
	require.NoError(t, err)

	// first-caller-wins under concurrency
	const n = 8
	stores := make([]*repo.Store, n)
	errs := make([]error, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			stores[i], errs[i] = repo.Connect(env.Ctx, uri, "askage_shared")
		}(i)
	}
	wg.Wait()

	for i := 0; i < n; i++ {
		require.NoError(t, errs[i])
	}
	for i := 1; i < n; i++ {
		require.Same(t, stores[0], stores[i])
	}

	// later calls observe the initialized handle, arguments ignored
	again, err := repo.Connect(env.Ctx, "mongodb://ignored:1", "other")
	require.NoError(t, err)
	require.Same(t, stores[0], again)
}
