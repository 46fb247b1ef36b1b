package db

// Repositories provides access to all database repositories
type Repositories struct {
	Videos    *VideoRepository
	Questions *QuestionRepository
	Progress  *ProgressRepository
	Answers   *AnswerRepository
	Settings  *SettingsRepository
}

// NewRepositories creates a new repository collection
func NewRepositories(db *DB) *Repositories {
	return &Repositories{
		Videos:    NewVideoRepository(db),
		Questions: NewQuestionRepository(db),
		Progress:  NewProgressRepository(db),
		Answers:   NewAnswerRepository(db),
		Settings:  NewSettingsRepository(db),
	}
}
