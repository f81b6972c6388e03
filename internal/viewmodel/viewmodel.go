// Package viewmodel holds the client-side state of the product console: the
// cached catalog, the active search and category filter, the edit session and
// the error banner.
//
// The cache has no authority of its own. Every successful create, update or
// delete is followed by a full refresh from the API.
package viewmodel

import (
	"context"
	"fmt"
	"sync"

	"product-catalog/internal/catalog"
	"product-catalog/internal/logger"
)

// API is the remote catalog. *apiclient.Client implements it.
type API interface {
	ListProducts(ctx context.Context) ([]catalog.Product, error)
	CreateProduct(ctx context.Context, in catalog.ProductInput) (*catalog.Product, error)
	UpdateProduct(ctx context.Context, id int64, in catalog.ProductInput) (*catalog.Product, error)
	DeleteProduct(ctx context.Context, id int64) error
}

// ConfirmFunc asks the user to confirm an irreversible action.
type ConfirmFunc func(prompt string) bool

// Snapshot is a consistent copy of the view state for rendering.
type Snapshot struct {
	Products       []catalog.Product
	Visible        []catalog.Product
	Stats          Stats
	SearchTerm     string
	FilterCategory string
	Loading        bool
	Error          string
	FormOpen       bool
	Editing        *catalog.Product
}

// ViewModel is safe for concurrent use.
type ViewModel struct {
	api API

	mu             sync.Mutex
	products       []catalog.Product
	searchTerm     string
	filterCategory string
	inflight       int
	errMsg         string
	formOpen       bool
	editing        *catalog.Product

	// generation of the newest refresh; older responses are dropped.
	gen uint64
}

// New creates an empty view model backed by api.
func New(api API) *ViewModel {
	return &ViewModel{api: api, products: []catalog.Product{}}
}

// Refresh replaces the cached catalog with a fresh fetch. On failure the
// previous collection is kept and the FetchFailed banner is set.
func (vm *ViewModel) Refresh(ctx context.Context) error {
	vm.mu.Lock()
	vm.gen++
	gen := vm.gen
	vm.inflight++
	vm.mu.Unlock()

	products, err := vm.api.ListProducts(ctx)

	vm.mu.Lock()
	defer vm.mu.Unlock()
	vm.inflight--

	if gen != vm.gen {
		logger.Debugf("refresh %d superseded by %d, response dropped", gen, vm.gen)
		return nil
	}
	if err != nil {
		logger.Debugf("refresh: %v", err)
		vm.errMsg = FetchFailed.Message()
		return &OpError{Kind: FetchFailed, Err: err}
	}
	if products == nil {
		products = []catalog.Product{}
	}
	vm.products = products
	vm.errMsg = ""
	return nil
}

// SetSearchTerm sets the free-text filter.
func (vm *ViewModel) SetSearchTerm(term string) {
	vm.mu.Lock()
	vm.searchTerm = term
	vm.mu.Unlock()
}

// SetFilterCategory sets the category filter. Empty disables it.
func (vm *ViewModel) SetFilterCategory(category string) {
	vm.mu.Lock()
	vm.filterCategory = category
	vm.mu.Unlock()
}

// Products returns a copy of the cached catalog.
func (vm *ViewModel) Products() []catalog.Product {
	vm.mu.Lock()
	defer vm.mu.Unlock()
	return append([]catalog.Product{}, vm.products...)
}

// Visible returns the filtered view, recomputed on every call.
func (vm *ViewModel) Visible() []catalog.Product {
	vm.mu.Lock()
	defer vm.mu.Unlock()
	return VisibleProducts(vm.products, vm.searchTerm, vm.filterCategory)
}

// Stats returns the catalog-wide aggregates.
func (vm *ViewModel) Stats() Stats {
	vm.mu.Lock()
	defer vm.mu.Unlock()
	return ComputeStats(vm.products)
}

// Loading reports whether a refresh is in flight.
func (vm *ViewModel) Loading() bool {
	vm.mu.Lock()
	defer vm.mu.Unlock()
	return vm.inflight > 0
}

// Err returns the current banner message, empty when there is none.
func (vm *ViewModel) Err() string {
	vm.mu.Lock()
	defer vm.mu.Unlock()
	return vm.errMsg
}

// Snapshot returns the whole view state at once.
func (vm *ViewModel) Snapshot() Snapshot {
	vm.mu.Lock()
	defer vm.mu.Unlock()
	s := Snapshot{
		Products:       append([]catalog.Product{}, vm.products...),
		Visible:        VisibleProducts(vm.products, vm.searchTerm, vm.filterCategory),
		Stats:          ComputeStats(vm.products),
		SearchTerm:     vm.searchTerm,
		FilterCategory: vm.filterCategory,
		Loading:        vm.inflight > 0,
		Error:          vm.errMsg,
		FormOpen:       vm.formOpen,
	}
	if vm.editing != nil {
		p := *vm.editing
		s.Editing = &p
	}
	return s
}

// OpenForm starts an edit session. A nil product starts a create session with
// default values; otherwise the form is a copy of p.
func (vm *ViewModel) OpenForm(p *catalog.Product) catalog.ProductInput {
	vm.mu.Lock()
	defer vm.mu.Unlock()
	vm.formOpen = true
	if p == nil {
		vm.editing = nil
		return catalog.NewProductInput()
	}
	cp := *p
	vm.editing = &cp
	return cp.Input()
}

// CloseForm discards the edit session.
func (vm *ViewModel) CloseForm() {
	vm.mu.Lock()
	vm.formOpen = false
	vm.editing = nil
	vm.mu.Unlock()
}

// Editing returns the product being edited, or nil.
func (vm *ViewModel) Editing() *catalog.Product {
	vm.mu.Lock()
	defer vm.mu.Unlock()
	if vm.editing == nil {
		return nil
	}
	p := *vm.editing
	return &p
}

// Submit sends the form: an update when a product is being edited, a create
// otherwise. On success the catalog is refreshed and the session closed; the
// returned error is then the refresh outcome. On failure the session stays open.
func (vm *ViewModel) Submit(ctx context.Context, in catalog.ProductInput) error {
	editing := vm.Editing()

	var err error
	kind := CreateFailed
	if editing != nil {
		kind = UpdateFailed
		_, err = vm.api.UpdateProduct(ctx, editing.ID, in)
	} else {
		_, err = vm.api.CreateProduct(ctx, in)
	}
	if err != nil {
		logger.Debugf("submit %s: %v", kind, err)
		vm.setError(kind.Message())
		return &OpError{Kind: kind, Err: err}
	}

	vm.CloseForm()
	return vm.Refresh(ctx)
}

// Remove deletes product id after confirm approves it. Without confirmation no
// request is made and ErrNotConfirmed is returned.
func (vm *ViewModel) Remove(ctx context.Context, id int64, confirm ConfirmFunc) error {
	if confirm == nil || !confirm(fmt.Sprintf("Delete product %d? This cannot be undone.", id)) {
		return ErrNotConfirmed
	}
	if err := vm.api.DeleteProduct(ctx, id); err != nil {
		logger.Debugf("remove %d: %v", id, err)
		vm.setError(DeleteFailed.Message())
		return &OpError{Kind: DeleteFailed, Err: err}
	}
	return vm.Refresh(ctx)
}

func (vm *ViewModel) setError(msg string) {
	vm.mu.Lock()
	vm.errMsg = msg
	vm.mu.Unlock()
}
