package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Stage etapa del pipeline de prospectos (columnas del kanban).
type Stage string

const (
	StageNew         Stage = "nuevo"
	StageContacted   Stage = "contactado"
	StageVisit       Stage = "visita"
	StageNegotiation Stage = "negociacion"
	StageClosed      Stage = "cerrado"
	StageLost        Stage = "perdido"
)

// Stages orden canónico de las columnas del pipeline.
var Stages = []Stage{StageNew, StageContacted, StageVisit, StageNegotiation, StageClosed, StageLost}

// ValidStage informa si s es una etapa conocida.
func ValidStage(s Stage) bool {
	for _, st := range Stages {
		if st == s {
			return true
		}
	}
	return false
}

// Label nombre legible de la etapa.
func (s Stage) Label() string {
	switch s {
	case StageNew:
		return "Nuevo"
	case StageContacted:
		return "Contactado"
	case StageVisit:
		return "Visita"
	case StageNegotiation:
		return "Negociación"
	case StageClosed:
		return "Cerrado"
	case StageLost:
		return "Perdido"
	}
	return string(s)
}

// Prospect lead de una inmobiliaria, opcionalmente interesado en un proyecto.
type Prospect struct {
	ID             string
	InmobiliariaID string
	ProjectID      string // vacío = sin proyecto asociado
	AssignedTo     string // usuario vendedor responsable
	Name           string
	Email          string
	Phone          string
	Budget         decimal.Decimal
	Stage          Stage
	Notes          string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}
