package models

// Level is a JLPT difficulty rank. N5 is the easiest, N1 the hardest.
type Level string

const (
	LevelN5 Level = "N5"
	LevelN4 Level = "N4"
	LevelN3 Level = "N3"
	LevelN2 Level = "N2"
	LevelN1 Level = "N1"
)

// Levels lists all ranks ordered from easiest to hardest.
var Levels = []Level{LevelN5, LevelN4, LevelN3, LevelN2, LevelN1}

// IsValid reports whether l is one of the known ranks.
func (l Level) IsValid() bool {
	for _, v := range Levels {
		if l == v {
			return true
		}
	}
	return false
}

// Harder returns the next harder rank, or l itself if already at N1.
func (l Level) Harder() Level {
	for i, v := range Levels {
		if l == v && i < len(Levels)-1 {
			return Levels[i+1]
		}
	}
	return l
}

// Easier returns the next easier rank, or l itself if already at N5.
func (l Level) Easier() Level {
	for i, v := range Levels {
		if l == v && i > 0 {
			return Levels[i-1]
		}
	}
	return l
}
