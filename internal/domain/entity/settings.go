package entity

// Settings listas de autocompletado para la interfaz (organizaciones y operadores conocidos).
// El núcleo no valida operaciones contra estas listas.
type Settings struct {
	Organizations []string `json:"organizations" validate:"dive,required"`
	Operators     []string `json:"operators" validate:"dive,required"`
}
