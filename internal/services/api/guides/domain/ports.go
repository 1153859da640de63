package domain

import "context"

// ServicePort defines the service contract for guides
type ServicePort interface {
	Search(ctx context.Context, in SearchInput) (SearchResult, error)
	List(ctx context.Context, page, perPage int) (SearchResult, error)
	Get(ctx context.Context, id string) (Guide, error)
	ResetQuery() Query
	Catalog() CatalogInfo
}
