package staff

import "time"

// HierarchyLevel orders the clinic's role hierarchy. Lower is more senior.
type HierarchyLevel int

const (
	LevelDirector     HierarchyLevel = 1
	LevelSubdireccion HierarchyLevel = 2
	LevelProfesional  HierarchyLevel = 3
	LevelTecnico      HierarchyLevel = 4
	LevelFuncionario  HierarchyLevel = 5
)

func (l HierarchyLevel) Valid() bool {
	return l >= LevelDirector && l <= LevelFuncionario
}

func (l HierarchyLevel) String() string {
	switch l {
	case LevelDirector:
		return "Director"
	case LevelSubdireccion:
		return "Subdirección"
	case LevelProfesional:
		return "Profesional"
	case LevelTecnico:
		return "Técnico"
	case LevelFuncionario:
		return "Funcionario"
	default:
		return "Desconocido"
	}
}

type Employee struct {
	ID        string         `json:"id"`
	Username  string         `json:"username"`
	FirstName string         `json:"firstName"`
	LastName  string         `json:"lastName"`
	Email     string         `json:"email"`
	Level     HierarchyLevel `json:"level"`
	Unit      string         `json:"unit"`
	UnitHead  bool           `json:"unitHead"`
	Active    bool           `json:"active"`
	CreatedAt time.Time      `json:"createdAt"`
}

// Actor is the authenticated identity handed to the core by the transport
// layer. It carries only what routing and auditing need.
type Actor struct {
	ID       string
	Username string
	Level    HierarchyLevel
	Unit     string
	UnitHead bool
}

func (e Employee) Actor() Actor {
	return Actor{
		ID:       e.ID,
		Username: e.Username,
		Level:    e.Level,
		Unit:     e.Unit,
		UnitHead: e.UnitHead,
	}
}
