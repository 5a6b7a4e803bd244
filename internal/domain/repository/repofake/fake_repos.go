// Package repofake repositorios en memoria para tests de casos de uso.
package repofake

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/jhoicas/Inmobiliaria-crm/internal/domain"
	"github.com/jhoicas/Inmobiliaria-crm/internal/domain/entity"
	"github.com/jhoicas/Inmobiliaria-crm/internal/domain/repository"
	"github.com/jhoicas/Inmobiliaria-crm/pkg/search"
)

var (
	_ repository.UserRepository         = (*Users)(nil)
	_ repository.InmobiliariaRepository = (*Inmobiliarias)(nil)
	_ repository.ProjectRepository      = (*Projects)(nil)
	_ repository.ProspectRepository     = (*Prospects)(nil)
	_ repository.CampaignRepository     = (*Campaigns)(nil)
)

func page[T any](list []T, limit, offset int) []T {
	if offset >= len(list) {
		return nil
	}
	list = list[offset:]
	if limit > 0 && limit < len(list) {
		list = list[:limit]
	}
	return list
}

// Users fake de UserRepository. Err, si no es nil, lo devuelve toda operación.
type Users struct {
	mu    sync.Mutex
	byID  map[string]*entity.User
	Err   error
	Calls int
}

func NewUsers(users ...*entity.User) *Users {
	r := &Users{byID: make(map[string]*entity.User)}
	for _, u := range users {
		r.byID[u.ID] = u
	}
	return r
}

func (r *Users) Create(_ context.Context, u *entity.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Calls++
	if r.Err != nil {
		return r.Err
	}
	for _, x := range r.byID {
		if strings.EqualFold(x.Email, u.Email) {
			return domain.ErrDuplicate
		}
	}
	cp := *u
	r.byID[u.ID] = &cp
	return nil
}

func (r *Users) GetByID(_ context.Context, id string) (*entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Calls++
	if r.Err != nil {
		return nil, r.Err
	}
	u, ok := r.byID[id]
	if !ok {
		return nil, nil
	}
	cp := *u
	return &cp, nil
}

func (r *Users) GetByEmail(_ context.Context, email string) (*entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Calls++
	if r.Err != nil {
		return nil, r.Err
	}
	for _, u := range r.byID {
		if strings.EqualFold(u.Email, email) {
			cp := *u
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *Users) ListByInmobiliaria(_ context.Context, inmobiliariaID string, limit, offset int) ([]*entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Calls++
	if r.Err != nil {
		return nil, r.Err
	}
	var list []*entity.User
	for _, u := range r.byID {
		if u.InmobiliariaID == inmobiliariaID {
			cp := *u
			list = append(list, &cp)
		}
	}
	sort.Slice(list, func(i, j int) bool { return list[i].Email < list[j].Email })
	return page(list, limit, offset), nil
}

func (r *Users) SetActive(_ context.Context, inmobiliariaID, id string, active bool) (*entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Calls++
	if r.Err != nil {
		return nil, r.Err
	}
	u, ok := r.byID[id]
	if !ok || u.InmobiliariaID != inmobiliariaID {
		return nil, nil
	}
	u.Active = active
	cp := *u
	return &cp, nil
}

// Inmobiliarias fake de InmobiliariaRepository.
type Inmobiliarias struct {
	mu   sync.Mutex
	byID map[string]*entity.Inmobiliaria
	Err  error
}

func NewInmobiliarias(list ...*entity.Inmobiliaria) *Inmobiliarias {
	r := &Inmobiliarias{byID: make(map[string]*entity.Inmobiliaria)}
	for _, in := range list {
		r.byID[in.ID] = in
	}
	return r
}

func (r *Inmobiliarias) Create(_ context.Context, in *entity.Inmobiliaria) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return r.Err
	}
	cp := *in
	r.byID[in.ID] = &cp
	return nil
}

func (r *Inmobiliarias) GetByID(_ context.Context, id string) (*entity.Inmobiliaria, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return nil, r.Err
	}
	in, ok := r.byID[id]
	if !ok {
		return nil, nil
	}
	cp := *in
	return &cp, nil
}

func (r *Inmobiliarias) List(_ context.Context, limit, offset int) ([]*entity.Inmobiliaria, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return nil, r.Err
	}
	list := make([]*entity.Inmobiliaria, 0, len(r.byID))
	for _, in := range r.byID {
		cp := *in
		list = append(list, &cp)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].Name < list[j].Name })
	return page(list, limit, offset), nil
}

// Projects fake de ProjectRepository.
type Projects struct {
	mu   sync.Mutex
	list []*entity.Project
}

func NewProjects(list ...*entity.Project) *Projects { return &Projects{list: list} }

func (r *Projects) GetByID(_ context.Context, inmobiliariaID, id string) (*entity.Project, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range r.list {
		if p.ID == id && p.InmobiliariaID == inmobiliariaID {
			cp := *p
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *Projects) Create(_ context.Context, p *entity.Project) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *p
	r.list = append(r.list, &cp)
	return nil
}

func (r *Projects) ListByInmobiliaria(_ context.Context, inmobiliariaID string, limit, offset int) ([]*entity.Project, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*entity.Project
	for _, p := range r.list {
		if p.InmobiliariaID == inmobiliariaID {
			cp := *p
			out = append(out, &cp)
		}
	}
	return page(out, limit, offset), nil
}

// Prospects fake de ProspectRepository (orden de inserción).
type Prospects struct {
	mu   sync.Mutex
	list []*entity.Prospect
	Err  error
}

func NewProspects(list ...*entity.Prospect) *Prospects {
	return &Prospects{list: list}
}

func (r *Prospects) Create(_ context.Context, p *entity.Prospect) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return r.Err
	}
	cp := *p
	r.list = append(r.list, &cp)
	return nil
}

func (r *Prospects) GetByID(_ context.Context, inmobiliariaID, id string) (*entity.Prospect, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return nil, r.Err
	}
	for _, p := range r.list {
		if p.ID == id && p.InmobiliariaID == inmobiliariaID {
			cp := *p
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *Prospects) List(_ context.Context, inmobiliariaID string, f repository.ProspectFilter) ([]*entity.Prospect, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return nil, r.Err
	}
	var out []*entity.Prospect
	for _, p := range r.list {
		if p.InmobiliariaID != inmobiliariaID {
			continue
		}
		if f.Stage != "" && p.Stage != f.Stage {
			continue
		}
		if f.AssignedTo != "" && p.AssignedTo != f.AssignedTo {
			continue
		}
		if !search.Matches(f.Search, p.Name, p.Email) {
			continue
		}
		cp := *p
		out = append(out, &cp)
	}
	return page(out, f.Limit, f.Offset), nil
}

func (r *Prospects) UpdateStage(_ context.Context, inmobiliariaID, id string, stage entity.Stage) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return r.Err
	}
	for _, p := range r.list {
		if p.ID == id && p.InmobiliariaID == inmobiliariaID {
			p.Stage = stage
			return nil
		}
	}
	return domain.ErrNotFound
}

func (r *Prospects) StageTotals(_ context.Context, inmobiliariaID, assignedTo string) ([]repository.StageTotal, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return nil, r.Err
	}
	idx := make(map[entity.Stage]int)
	var out []repository.StageTotal
	for _, p := range r.list {
		if p.InmobiliariaID != inmobiliariaID || (assignedTo != "" && p.AssignedTo != assignedTo) {
			continue
		}
		i, ok := idx[p.Stage]
		if !ok {
			i = len(out)
			idx[p.Stage] = i
			out = append(out, repository.StageTotal{Stage: p.Stage})
		}
		out[i].Count++
		out[i].Budget = out[i].Budget.Add(p.Budget)
	}
	return out, nil
}

// Campaigns fake de CampaignRepository.
type Campaigns struct {
	mu   sync.Mutex
	list []*entity.Campaign
}

func NewCampaigns() *Campaigns { return &Campaigns{} }

func (r *Campaigns) Create(_ context.Context, c *entity.Campaign) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *c
	r.list = append(r.list, &cp)
	return nil
}

func (r *Campaigns) ListByInmobiliaria(_ context.Context, inmobiliariaID string, limit, offset int) ([]*entity.Campaign, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*entity.Campaign
	for _, c := range r.list {
		if c.InmobiliariaID == inmobiliariaID {
			cp := *c
			out = append(out, &cp)
		}
	}
	return page(out, limit, offset), nil
}
