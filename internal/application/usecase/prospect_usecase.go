package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Inmobiliaria-crm/internal/application/dto"
	"github.com/jhoicas/Inmobiliaria-crm/internal/domain"
	"github.com/jhoicas/Inmobiliaria-crm/internal/domain/entity"
	"github.com/jhoicas/Inmobiliaria-crm/internal/domain/repository"
	"github.com/jhoicas/Inmobiliaria-crm/pkg/retry"
	"github.com/jhoicas/Inmobiliaria-crm/pkg/search"
)

// boardLimit tope de tarjetas que se cargan en el tablero. Los totales por
// columna salen siempre de la agregación y no dependen de este tope.
const boardLimit = 200

// ProspectUseCase prospectos y pipeline de ventas. Un seller solo ve y mueve los
// prospectos que tiene asignados.
type ProspectUseCase struct {
	repo     repository.ProspectRepository
	projects repository.ProjectRepository
	users    repository.UserRepository
	report   PipelineReportGenerator
	retry    retry.Policy
}

// NewProspectUseCase construye el caso de uso. projects y users validan que el
// proyecto y el asesor de un prospecto nuevo sean de la misma inmobiliaria.
func NewProspectUseCase(repo repository.ProspectRepository, projects repository.ProjectRepository, users repository.UserRepository, report PipelineReportGenerator, p retry.Policy) *ProspectUseCase {
	return &ProspectUseCase{repo: repo, projects: projects, users: users, report: report, retry: p}
}

// Create registra un prospecto en etapa "nuevo". Si lo crea un seller queda asignado a él.
func (uc *ProspectUseCase) Create(ctx context.Context, actor *entity.Identity, in dto.CreateProspectRequest) (*dto.ProspectResponse, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" || in.Budget.IsNegative() {
		return nil, domain.ErrInvalidInput
	}
	projectID := strings.TrimSpace(in.ProjectID)
	assigned := strings.TrimSpace(in.AssignedTo)
	if actor.Role == entity.RoleSeller {
		assigned = actor.ID
	}
	if err := uc.checkReferences(ctx, actor, projectID, assigned); err != nil {
		return nil, err
	}
	now := time.Now()
	p := &entity.Prospect{
		ID:             uuid.New().String(),
		InmobiliariaID: actor.InmobiliariaID,
		ProjectID:      projectID,
		AssignedTo:     assigned,
		Name:           name,
		Email:          strings.TrimSpace(in.Email),
		Phone:          strings.TrimSpace(in.Phone),
		Budget:         in.Budget,
		Stage:          entity.StageNew,
		Notes:          in.Notes,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := uc.repo.Create(ctx, p); err != nil {
		return nil, err
	}
	return toProspectResponse(p), nil
}

// checkReferences exige que projectID y assignedTo, si vienen, sean UUID de
// registros de la inmobiliaria del actor.
func (uc *ProspectUseCase) checkReferences(ctx context.Context, actor *entity.Identity, projectID, assignedTo string) error {
	if projectID != "" {
		if _, err := uuid.Parse(projectID); err != nil {
			return fmt.Errorf("%w: proyecto_id no es un UUID", domain.ErrInvalidInput)
		}
		pr, err := retry.Do(ctx, uc.retry, func(ctx context.Context) (*entity.Project, error) {
			return uc.projects.GetByID(ctx, actor.InmobiliariaID, projectID)
		})
		if err != nil {
			return err
		}
		if pr == nil {
			return fmt.Errorf("%w: proyecto inexistente", domain.ErrInvalidInput)
		}
	}
	if assignedTo != "" && assignedTo != actor.ID {
		if _, err := uuid.Parse(assignedTo); err != nil {
			return fmt.Errorf("%w: asignado_a no es un UUID", domain.ErrInvalidInput)
		}
		u, err := retry.Do(ctx, uc.retry, func(ctx context.Context) (*entity.User, error) {
			return uc.users.GetByID(ctx, assignedTo)
		})
		if err != nil {
			return err
		}
		if u == nil || u.InmobiliariaID != actor.InmobiliariaID {
			return fmt.Errorf("%w: asesor inexistente", domain.ErrInvalidInput)
		}
	}
	return nil
}

// List lista prospectos con filtros de etapa, asignación y búsqueda por nombre o email.
func (uc *ProspectUseCase) List(ctx context.Context, actor *entity.Identity, in dto.ProspectListRequest) ([]dto.ProspectResponse, error) {
	in.DefaultPage()
	f := repository.ProspectFilter{
		AssignedTo: in.AssignedTo,
		Search:     search.Fold(in.Search),
		Limit:      in.Limit,
		Offset:     in.Offset,
	}
	if in.Stage != "" {
		st := entity.Stage(in.Stage)
		if !entity.ValidStage(st) {
			return nil, domain.ErrInvalidInput
		}
		f.Stage = st
	}
	list, err := uc.load(ctx, actor, f)
	if err != nil {
		return nil, err
	}
	out := make([]dto.ProspectResponse, 0, len(list))
	for _, p := range list {
		out = append(out, *toProspectResponse(p))
	}
	return out, nil
}

// MoveStage mueve un prospecto a otra etapa del pipeline.
func (uc *ProspectUseCase) MoveStage(ctx context.Context, actor *entity.Identity, id string, in dto.MoveStageRequest) (*dto.ProspectResponse, error) {
	stage := entity.Stage(strings.TrimSpace(in.Stage))
	if !entity.ValidStage(stage) {
		return nil, domain.ErrInvalidInput
	}
	p, err := retry.Do(ctx, uc.retry, func(ctx context.Context) (*entity.Prospect, error) {
		return uc.repo.GetByID(ctx, actor.InmobiliariaID, id)
	})
	if err != nil {
		return nil, err
	}
	if p == nil || (actor.Role == entity.RoleSeller && p.AssignedTo != actor.ID) {
		return nil, domain.ErrNotFound
	}
	if p.Stage == stage {
		return toProspectResponse(p), nil
	}
	if err := uc.repo.UpdateStage(ctx, actor.InmobiliariaID, id, stage); err != nil {
		return nil, err
	}
	p.Stage = stage
	p.UpdatedAt = time.Now()
	return toProspectResponse(p), nil
}

// Pipeline agrupa los prospectos visibles por etapa, en el orden canónico.
// Total y presupuesto de cada columna cubren todos los prospectos visibles;
// las tarjetas se cortan en boardLimit y Truncated lo indica.
func (uc *ProspectUseCase) Pipeline(ctx context.Context, actor *entity.Identity) (*dto.PipelineResponse, error) {
	list, err := uc.load(ctx, actor, repository.ProspectFilter{Limit: boardLimit})
	if err != nil {
		return nil, err
	}
	var assignedTo string
	if actor.Role == entity.RoleSeller {
		assignedTo = actor.ID
	}
	totals, err := retry.Do(ctx, uc.retry, func(ctx context.Context) ([]repository.StageTotal, error) {
		return uc.repo.StageTotals(ctx, actor.InmobiliariaID, assignedTo)
	})
	if err != nil {
		return nil, err
	}
	return buildBoard(list, totals), nil
}

// PipelineReport genera el PDF del tablero.
func (uc *ProspectUseCase) PipelineReport(ctx context.Context, actor *entity.Identity) ([]byte, error) {
	board, err := uc.Pipeline(ctx, actor)
	if err != nil {
		return nil, err
	}
	return uc.report.GeneratePipelineReport(ctx, actor.TenantName, board)
}

func (uc *ProspectUseCase) load(ctx context.Context, actor *entity.Identity, f repository.ProspectFilter) ([]*entity.Prospect, error) {
	if actor.Role == entity.RoleSeller {
		f.AssignedTo = actor.ID
	}
	return retry.Do(ctx, uc.retry, func(ctx context.Context) ([]*entity.Prospect, error) {
		return uc.repo.List(ctx, actor.InmobiliariaID, f)
	})
}

func buildBoard(list []*entity.Prospect, totals []repository.StageTotal) *dto.PipelineResponse {
	cols := make([]dto.PipelineColumn, len(entity.Stages))
	idx := make(map[entity.Stage]int, len(entity.Stages))
	for i, st := range entity.Stages {
		cols[i] = dto.PipelineColumn{
			Stage:     string(st),
			Label:     st.Label(),
			Budget:    decimal.Zero,
			Prospects: []dto.ProspectResponse{},
		}
		idx[st] = i
	}
	loaded := 0
	for _, p := range list {
		i, ok := idx[p.Stage]
		if !ok {
			continue
		}
		cols[i].Prospects = append(cols[i].Prospects, *toProspectResponse(p))
		loaded++
	}
	total := 0
	for _, t := range totals {
		i, ok := idx[t.Stage]
		if !ok {
			continue
		}
		cols[i].Count = t.Count
		cols[i].Budget = t.Budget
		total += t.Count
	}
	return &dto.PipelineResponse{Columns: cols, Truncated: total > loaded}
}

func toProspectResponse(p *entity.Prospect) *dto.ProspectResponse {
	return &dto.ProspectResponse{
		ID:         p.ID,
		Name:       p.Name,
		Email:      p.Email,
		Phone:      p.Phone,
		ProjectID:  p.ProjectID,
		AssignedTo: p.AssignedTo,
		Budget:     p.Budget,
		Stage:      string(p.Stage),
		Notes:      p.Notes,
		CreatedAt:  p.CreatedAt,
		UpdatedAt:  p.UpdatedAt,
	}
}
