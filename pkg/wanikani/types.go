package wanikani

import "time"

// UserInformation mirrors the user-information resource.
type UserInformation struct {
	Username     *string    `json:"username" yaml:"username"`
	Gravatar     *string    `json:"gravatar" yaml:"gravatar"`
	Level        *int       `json:"level" yaml:"level"`
	Title        *string    `json:"title" yaml:"title"`
	About        *string    `json:"about" yaml:"about"`
	Twitter      *string    `json:"twitter" yaml:"twitter"`
	TopicsCount  *int       `json:"topics_count" yaml:"topics_count"`
	PostsCount   *int       `json:"posts_count" yaml:"posts_count"`
	CreationDate *time.Time `json:"creation_date" yaml:"creation_date"`
	VacationDate *time.Time `json:"vacation_date" yaml:"vacation_date"`
}

func (u *UserInformation) schema() schema {
	return schema{
		{"username", identity(&u.Username)},
		{"gravatar", identity(&u.Gravatar)},
		{"level", identity(&u.Level)},
		{"title", identity(&u.Title)},
		{"about", identity(&u.About)},
		{"twitter", identity(&u.Twitter)},
		{"topics_count", identity(&u.TopicsCount)},
		{"posts_count", identity(&u.PostsCount)},
		{"creation_date", epoch(&u.CreationDate)},
		{"vacation_date", epoch(&u.VacationDate)},
	}
}

// StudyQueue mirrors the study-queue resource.
type StudyQueue struct {
	LessonsAvailable         *int       `json:"lessons_available" yaml:"lessons_available"`
	ReviewsAvailable         *int       `json:"reviews_available" yaml:"reviews_available"`
	ReviewsAvailableNextHour *int       `json:"reviews_available_next_hour" yaml:"reviews_available_next_hour"`
	ReviewsAvailableNextDay  *int       `json:"reviews_available_next_day" yaml:"reviews_available_next_day"`
	NextReviewDate           *time.Time `json:"next_review_date" yaml:"next_review_date"`
}

func (q *StudyQueue) schema() schema {
	return schema{
		{"lessons_available", identity(&q.LessonsAvailable)},
		{"reviews_available", identity(&q.ReviewsAvailable)},
		{"reviews_available_next_hour", identity(&q.ReviewsAvailableNextHour)},
		{"reviews_available_next_day", identity(&q.ReviewsAvailableNextDay)},
		{"next_review_date", epoch(&q.NextReviewDate)},
	}
}

// LevelProgression mirrors the level-progression resource.
type LevelProgression struct {
	RadicalsProgress *int `json:"radicals_progress" yaml:"radicals_progress"`
	RadicalsTotal    *int `json:"radicals_total" yaml:"radicals_total"`
	KanjiProgress    *int `json:"kanji_progress" yaml:"kanji_progress"`
	KanjiTotal       *int `json:"kanji_total" yaml:"kanji_total"`
}

func (p *LevelProgression) schema() schema {
	return schema{
		{"radicals_progress", identity(&p.RadicalsProgress)},
		{"radicals_total", identity(&p.RadicalsTotal)},
		{"kanji_progress", identity(&p.KanjiProgress)},
		{"kanji_total", identity(&p.KanjiTotal)},
	}
}

// SRSDistribution mirrors the srs-distribution resource, one bucket per grade.
type SRSDistribution struct {
	Apprentice *SRSLevel `json:"apprentice" yaml:"apprentice"`
	Guru       *SRSLevel `json:"guru" yaml:"guru"`
	Master     *SRSLevel `json:"master" yaml:"master"`
	Enlighten  *SRSLevel `json:"enlighten" yaml:"enlighten"`
	Burned     *SRSLevel `json:"burned" yaml:"burned"`
}

func (d *SRSDistribution) schema() schema {
	return schema{
		{"apprentice", nested[SRSLevel](&d.Apprentice)},
		{"guru", nested[SRSLevel](&d.Guru)},
		{"master", nested[SRSLevel](&d.Master)},
		{"enlighten", nested[SRSLevel](&d.Enlighten)},
		{"burned", nested[SRSLevel](&d.Burned)},
	}
}

// SRSLevel counts the items sitting in one SRS grade.
type SRSLevel struct {
	Radicals   *int `json:"radicals" yaml:"radicals"`
	Kanji      *int `json:"kanji" yaml:"kanji"`
	Vocabulary *int `json:"vocabulary" yaml:"vocabulary"`
	Total      *int `json:"total" yaml:"total"`
}

func (l *SRSLevel) schema() schema {
	return schema{
		{"radicals", identity(&l.Radicals)},
		{"kanji", identity(&l.Kanji)},
		{"vocabulary", identity(&l.Vocabulary)},
		{"total", identity(&l.Total)},
	}
}

// UserSpecific holds the caller's own review statistics for one item.
type UserSpecific struct {
	SRS                  *string    `json:"srs" yaml:"srs"`
	SRSNumeric           *int       `json:"srs_numeric" yaml:"srs_numeric"`
	UnlockedDate         *time.Time `json:"unlocked_date" yaml:"unlocked_date"`
	AvailableDate        *time.Time `json:"available_date" yaml:"available_date"`
	Burned               *bool      `json:"burned" yaml:"burned"`
	BurnedDate           *time.Time `json:"burned_date" yaml:"burned_date"`
	MeaningCorrect       *int       `json:"meaning_correct" yaml:"meaning_correct"`
	MeaningIncorrect     *int       `json:"meaning_incorrect" yaml:"meaning_incorrect"`
	MeaningMaxStreak     *int       `json:"meaning_max_streak" yaml:"meaning_max_streak"`
	MeaningCurrentStreak *int       `json:"meaning_current_streak" yaml:"meaning_current_streak"`
	ReadingCorrect       *int       `json:"reading_correct" yaml:"reading_correct"`
	ReadingIncorrect     *int       `json:"reading_incorrect" yaml:"reading_incorrect"`
	ReadingMaxStreak     *int       `json:"reading_max_streak" yaml:"reading_max_streak"`
	ReadingCurrentStreak *int       `json:"reading_current_streak" yaml:"reading_current_streak"`
	MeaningNote          *string    `json:"meaning_note" yaml:"meaning_note"`
	UserSynonyms         []string   `json:"user_synonyms" yaml:"user_synonyms"`
	ReadingNote          *string    `json:"reading_note" yaml:"reading_note"`
}

func (s *UserSpecific) schema() schema {
	return schema{
		{"srs", identity(&s.SRS)},
		{"srs_numeric", identity(&s.SRSNumeric)},
		{"unlocked_date", epoch(&s.UnlockedDate)},
		{"available_date", epoch(&s.AvailableDate)},
		{"burned", identity(&s.Burned)},
		{"burned_date", epoch(&s.BurnedDate)},
		{"meaning_correct", identity(&s.MeaningCorrect)},
		{"meaning_incorrect", identity(&s.MeaningIncorrect)},
		{"meaning_max_streak", identity(&s.MeaningMaxStreak)},
		{"meaning_current_streak", identity(&s.MeaningCurrentStreak)},
		{"reading_correct", identity(&s.ReadingCorrect)},
		{"reading_incorrect", identity(&s.ReadingIncorrect)},
		{"reading_max_streak", identity(&s.ReadingMaxStreak)},
		{"reading_current_streak", identity(&s.ReadingCurrentStreak)},
		{"meaning_note", identity(&s.MeaningNote)},
		{"user_synonyms", identityList(&s.UserSynonyms)},
		{"reading_note", identity(&s.ReadingNote)},
	}
}

// Radical is a radical item. Character is nil for image-only radicals.
type Radical struct {
	Character    *string       `json:"character" yaml:"character"`
	Meaning      []string      `json:"meaning" yaml:"meaning"`
	Image        *string       `json:"image" yaml:"image"`
	Level        *int          `json:"level" yaml:"level"`
	UserSpecific *UserSpecific `json:"user_specific" yaml:"user_specific"`
}

func (r *Radical) schema() schema {
	return schema{
		{"character", identity(&r.Character)},
		{"meaning", split(&r.Meaning)},
		{"image", identity(&r.Image)},
		{"level", identity(&r.Level)},
		{"user_specific", nested[UserSpecific](&r.UserSpecific)},
	}
}

// Kanji is a kanji item with its readings.
type Kanji struct {
	Character        *string       `json:"character" yaml:"character"`
	Meaning          []string      `json:"meaning" yaml:"meaning"`
	Onyomi           []string      `json:"onyomi" yaml:"onyomi"`
	Kunyomi          []string      `json:"kunyomi" yaml:"kunyomi"`
	Nanori           []string      `json:"nanori" yaml:"nanori"`
	ImportantReading *string       `json:"important_reading" yaml:"important_reading"`
	Level            *int          `json:"level" yaml:"level"`
	UserSpecific     *UserSpecific `json:"user_specific" yaml:"user_specific"`
}

func (k *Kanji) schema() schema {
	return schema{
		{"character", identity(&k.Character)},
		{"meaning", split(&k.Meaning)},
		{"onyomi", split(&k.Onyomi)},
		{"kunyomi", split(&k.Kunyomi)},
		{"nanori", split(&k.Nanori)},
		{"important_reading", identity(&k.ImportantReading)},
		{"level", identity(&k.Level)},
		{"user_specific", nested[UserSpecific](&k.UserSpecific)},
	}
}

// Vocabulary is a vocabulary item with its kana readings.
type Vocabulary struct {
	Character    *string       `json:"character" yaml:"character"`
	Kana         []string      `json:"kana" yaml:"kana"`
	Meaning      []string      `json:"meaning" yaml:"meaning"`
	Level        *int          `json:"level" yaml:"level"`
	UserSpecific *UserSpecific `json:"user_specific" yaml:"user_specific"`
}

func (v *Vocabulary) schema() schema {
	return schema{
		{"character", identity(&v.Character)},
		{"kana", split(&v.Kana)},
		{"meaning", split(&v.Meaning)},
		{"level", identity(&v.Level)},
		{"user_specific", nested[UserSpecific](&v.UserSpecific)},
	}
}
