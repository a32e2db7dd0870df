package query

import (
	"context"

	"github.com/blogward/blogward-backend/internal/infra/db/repo"
	dbs "github.com/blogward/blogward-backend/pkg/db"
)

// CheckDomain answers whether a domain belongs to a managed site. Wired to
// the TLS on-demand "ask" endpoint so certificates are only issued for
// domains on file.
type CheckDomain struct {
	*dbs.UOWFactory
}

func NewCheckDomain(factory *dbs.UOWFactory) *CheckDomain {
	return &CheckDomain{UOWFactory: factory}
}

func (q *CheckDomain) Query(ctx context.Context, domain string) (bool, error) {
	uow := q.UOWFactory.GetUoW()
	tx, err := uow.Begin()
	if err != nil {
		return false, err
	}
	defer func() {
		_ = uow.Rollback()
	}()

	domains, err := repo.NewSiteRepo(tx).ListDomains(ctx)
	if err != nil {
		return false, err
	}
	for _, d := range domains {
		if d == domain {
			return true, nil
		}
	}
	return false, nil
}
