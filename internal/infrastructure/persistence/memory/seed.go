package memory

import (
	"context"

	"github.com/finwiss-hub/finwiss-learning-hub/internal/infrastructure/persistence/catalog"
)

// Seed populates the store with the default catalog: three daily
// challenges, six badges and two courses. Intended for fresh stores only.
func Seed(ctx context.Context, s *Store) error {
	return catalog.Seed(ctx, s.Badges(), s.Challenges(), s.Courses())
}
