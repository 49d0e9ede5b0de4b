package service

import (
	"context"
	"fmt"
	"sync"

	"github.com/gharseva/gharseva-api/internal/domain"
)

// fakePartnerRepo is an in-memory stand-in for the Mongo repository. Only
// the behavior exercised by the service tests is implemented; everything
// else panics so an unexpected call is loud.
type fakePartnerRepo struct {
	mu      sync.Mutex
	partner *domain.Partner

	getErr       error
	setMediaErr  error
	addItemsErr  error
	updateErr    error
	removeErr    error
	nearbyResult []*domain.Partner
	rankedResult []*domain.Partner

	setAvatarCalls []*domain.AssetDescriptor
	setBannerCalls []*domain.AssetDescriptor
	removedItems   []string
	categoryCalls  int
	searchCalls    int
}

func (f *fakePartnerRepo) GetByID(ctx context.Context, id string) (*domain.Partner, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	if f.partner == nil || f.partner.ID != id {
		return nil, domain.ErrNotFound
	}
	copied := *f.partner
	return &copied, nil
}

func (f *fakePartnerRepo) SetAvatar(ctx context.Context, id string, desc *domain.AssetDescriptor) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.setAvatarCalls = append(f.setAvatarCalls, desc)
	if f.setMediaErr != nil {
		return f.setMediaErr
	}
	f.partner.Avatar = desc
	return nil
}

func (f *fakePartnerRepo) SetBanner(ctx context.Context, id string, desc *domain.AssetDescriptor) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.setBannerCalls = append(f.setBannerCalls, desc)
	if f.setMediaErr != nil {
		return f.setMediaErr
	}
	f.partner.Banner = desc
	return nil
}

func (f *fakePartnerRepo) AddPortfolioItems(ctx context.Context, id string, items []domain.PortfolioItem) error {
	if f.addItemsErr != nil {
		return f.addItemsErr
	}
	for i := range items {
		items[i].ID = fmt.Sprintf("item-%d", len(f.partner.Portfolio)+i+1)
	}
	f.partner.Portfolio = append(f.partner.Portfolio, items...)
	return nil
}

func (f *fakePartnerRepo) GetPortfolioItem(ctx context.Context, id, itemID string) (*domain.PortfolioItem, error) {
	for i := range f.partner.Portfolio {
		if f.partner.Portfolio[i].ID == itemID {
			item := f.partner.Portfolio[i]
			return &item, nil
		}
	}
	return nil, domain.ErrPortfolioItemNotFound
}

func (f *fakePartnerRepo) UpdatePortfolioItem(ctx context.Context, id, itemID string, patch domain.PortfolioPatch) error {
	if f.updateErr != nil {
		return f.updateErr
	}
	for i := range f.partner.Portfolio {
		if f.partner.Portfolio[i].ID != itemID {
			continue
		}
		if patch.Kind != nil {
			f.partner.Portfolio[i].Kind = *patch.Kind
		}
		if patch.Caption != nil {
			f.partner.Portfolio[i].Caption = *patch.Caption
		}
		if patch.Location != nil {
			f.partner.Portfolio[i].Location = patch.Location
		}
		return nil
	}
	return domain.ErrPortfolioItemNotFound
}

func (f *fakePartnerRepo) RemovePortfolioItem(ctx context.Context, id, itemID string) error {
	if f.removeErr != nil {
		return f.removeErr
	}
	f.removedItems = append(f.removedItems, itemID)
	for i := range f.partner.Portfolio {
		if f.partner.Portfolio[i].ID == itemID {
			f.partner.Portfolio = append(f.partner.Portfolio[:i], f.partner.Portfolio[i+1:]...)
			return nil
		}
	}
	return domain.ErrPortfolioItemNotFound
}

func (f *fakePartnerRepo) FindNearby(ctx context.Context, point domain.GeoPoint, maxDistanceMeters int, filter domain.DirectoryFilter) ([]*domain.Partner, error) {
	return f.nearbyResult, nil
}

func (f *fakePartnerRepo) FindByCategory(ctx context.Context, category string, limit int64) ([]*domain.Partner, error) {
	f.categoryCalls++
	return f.rankedResult, nil
}

func (f *fakePartnerRepo) SearchByServiceName(ctx context.Context, name string, limit int64) ([]*domain.Partner, error) {
	f.searchCalls++
	return f.rankedResult, nil
}

func (f *fakePartnerRepo) Create(ctx context.Context, partner *domain.Partner) error {
	panic("not used in this test")
}

func (f *fakePartnerRepo) GetByEmail(ctx context.Context, email string) (*domain.Partner, error) {
	panic("not used in this test")
}

func (f *fakePartnerRepo) ExistsByEmailOrPhone(ctx context.Context, email, phone string) (bool, error) {
	panic("not used in this test")
}

func (f *fakePartnerRepo) UpdateProfile(ctx context.Context, id string, update domain.ProfileUpdate) (*domain.Partner, error) {
	panic("not used in this test")
}

func (f *fakePartnerRepo) UpdateServices(ctx context.Context, id string, services []domain.Service) error {
	panic("not used in this test")
}

func (f *fakePartnerRepo) UpdateVisitingFee(ctx context.Context, id string, fee domain.VisitingFee) error {
	panic("not used in this test")
}

func (f *fakePartnerRepo) SetActive(ctx context.Context, id string, active bool) error {
	panic("not used in this test")
}

func (f *fakePartnerRepo) UpdatePassword(ctx context.Context, id, passwordHash string) error {
	panic("not used in this test")
}

// fakeUserRepo is an in-memory stand-in for the user repository, keyed by
// email the way the auth flow reads accounts. GetByID strips the password
// hash to mirror the Mongo projection.
type fakeUserRepo struct {
	mu      sync.Mutex
	byEmail map[string]*domain.User

	getErr       error
	setAvatarErr error
	nearbyResult []*domain.User

	setAvatarCalls []*domain.AssetDescriptor
	profileUpdates []domain.UserProfileUpdate
	activeCalls    []bool
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{byEmail: make(map[string]*domain.User)}
}

func (r *fakeUserRepo) byID(id string) *domain.User {
	for _, u := range r.byEmail {
		if u.ID == id {
			return u
		}
	}
	return nil
}

func (r *fakeUserRepo) Create(ctx context.Context, user *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	user.ID = fmt.Sprintf("user-%d", len(r.byEmail)+1)
	copied := *user
	r.byEmail[user.Email] = &copied
	return nil
}

func (r *fakeUserRepo) GetByID(ctx context.Context, id string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.getErr != nil {
		return nil, r.getErr
	}
	u := r.byID(id)
	if u == nil {
		return nil, domain.ErrNotFound
	}
	copied := *u
	copied.Password = ""
	return &copied, nil
}

func (r *fakeUserRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if u, ok := r.byEmail[email]; ok {
		copied := *u
		return &copied, nil
	}
	return nil, domain.ErrNotFound
}

func (r *fakeUserRepo) ExistsByEmailOrPhone(ctx context.Context, email, phone string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.byEmail[email]
	return ok, nil
}

func (r *fakeUserRepo) UpdateProfile(ctx context.Context, id string, update domain.UserProfileUpdate) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.profileUpdates = append(r.profileUpdates, update)
	u := r.byID(id)
	if u == nil {
		return domain.ErrNotFound
	}
	if update.Name != nil {
		u.Name = *update.Name
	}
	if update.Location != nil {
		u.Location = update.Location
	}
	return nil
}

func (r *fakeUserRepo) UpdatePassword(ctx context.Context, id, passwordHash string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u := r.byID(id)
	if u == nil {
		return domain.ErrNotFound
	}
	u.Password = passwordHash
	return nil
}

func (r *fakeUserRepo) SetActive(ctx context.Context, id string, active bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.activeCalls = append(r.activeCalls, active)
	u := r.byID(id)
	if u == nil {
		return domain.ErrNotFound
	}
	u.IsActive = active
	return nil
}

func (r *fakeUserRepo) SetAvatar(ctx context.Context, id string, desc *domain.AssetDescriptor) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.setAvatarCalls = append(r.setAvatarCalls, desc)
	if r.setAvatarErr != nil {
		return r.setAvatarErr
	}
	u := r.byID(id)
	if u == nil {
		return domain.ErrNotFound
	}
	u.Avatar = desc
	return nil
}

func (r *fakeUserRepo) FindNearby(ctx context.Context, point domain.GeoPoint, maxDistanceMeters int) ([]*domain.User, error) {
	return r.nearbyResult, nil
}

// fakeStore records uploads and deletions without any network
type fakeStore struct {
	mu sync.Mutex

	uploadErr error
	batchErr  error
	deleteErr error

	uploads []string
	deletes []string
	seq     int
}

func (f *fakeStore) Upload(ctx context.Context, data []byte, originalName, folder string) (*domain.AssetDescriptor, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.uploadErr != nil {
		return nil, f.uploadErr
	}
	f.seq++
	path := fmt.Sprintf("%s/%d_%s", folder, f.seq, originalName)
	f.uploads = append(f.uploads, path)
	return &domain.AssetDescriptor{
		URL:         "https://example.com/" + path,
		StoragePath: path,
		ContentHash: fmt.Sprintf("sha-%d", f.seq),
	}, nil
}

func (f *fakeStore) UploadBatch(ctx context.Context, files []domain.UploadFile, folder string) ([]*domain.AssetDescriptor, error) {
	if f.batchErr != nil {
		return nil, f.batchErr
	}
	descriptors := make([]*domain.AssetDescriptor, len(files))
	for i, file := range files {
		desc, err := f.Upload(ctx, file.Data, file.Name, folder)
		if err != nil {
			return nil, err
		}
		descriptors[i] = desc
	}
	return descriptors, nil
}

func (f *fakeStore) Update(ctx context.Context, storagePath string, data []byte, expectedHash string) (*domain.AssetDescriptor, error) {
	panic("not used in this test")
}

func (f *fakeStore) Delete(ctx context.Context, storagePath string, expectedHash string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deletes = append(f.deletes, storagePath)
	return f.deleteErr
}
