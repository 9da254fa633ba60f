package models

// Movie is a canonical movie record from either the backend or TMDB.
type Movie struct {
	ID          uint    `json:"id"`
	Title       string  `json:"title"`
	Overview    string  `json:"overview"`
	ReleaseDate string  `json:"release_date"`
	PosterPath  string  `json:"poster_path"`
	VoteAverage float64 `json:"vote_average"`
}

// Person is a canonical person record (actor or director).
type Person struct {
	ID                 uint     `json:"id"`
	Name               string   `json:"name"`
	Birthday           string   `json:"birthday"`
	ProfilePath        string   `json:"profile_path"`
	KnownForDepartment string   `json:"known_for_department"`
	KnownFor           []string `json:"known_for"`
}
