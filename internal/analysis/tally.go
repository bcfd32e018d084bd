package analysis

// Tally accumulates bucket counts for a corpus. Each recorded classification
// increments exactly one sentiment counter and exactly one emotion counter, so
// both groups always sum to Total().
type Tally struct {
	Positive int `json:"positive"`
	Negative int `json:"negative"`
	Neutral  int `json:"neutral"`

	Happy          int `json:"happy"`
	Sad            int `json:"sad"`
	Angry          int `json:"angry"`
	EmotionNeutral int `json:"emotion_neutral"`
}

func (t *Tally) Add(c Classification) {
	switch c.Sentiment {
	case SentimentPositive:
		t.Positive++
	case SentimentNegative:
		t.Negative++
	default:
		t.Neutral++
	}

	switch c.Emotion {
	case EmotionHappy:
		t.Happy++
	case EmotionAngry:
		t.Angry++
	case EmotionSad:
		t.Sad++
	default:
		t.EmotionNeutral++
	}
}

// Merge folds another partial tally into t.
func (t *Tally) Merge(other Tally) {
	t.Positive += other.Positive
	t.Negative += other.Negative
	t.Neutral += other.Neutral
	t.Happy += other.Happy
	t.Sad += other.Sad
	t.Angry += other.Angry
	t.EmotionNeutral += other.EmotionNeutral
}

func (t Tally) Total() int {
	return t.Positive + t.Negative + t.Neutral
}
