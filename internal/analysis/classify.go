package analysis

// Sentiment is the polarity bucket a single review lands in.
type Sentiment string

const (
	SentimentPositive Sentiment = "positive"
	SentimentNegative Sentiment = "negative"
	SentimentNeutral  Sentiment = "neutral"
)

// Emotion is the coarse emotion bucket a single review lands in.
type Emotion string

const (
	EmotionHappy   Emotion = "happy"
	EmotionSad     Emotion = "sad"
	EmotionAngry   Emotion = "angry"
	EmotionNeutral Emotion = "emotion_neutral"
)

const (
	POSITIVE_THRESHOLD = 0.05
	NEGATIVE_THRESHOLD = -0.05
	HAPPY_THRESHOLD    = 0.6
	ANGRY_THRESHOLD    = -0.6
)

// ClassifySentiment maps a compound score to its sentiment bucket.
// Both boundaries are inclusive.
func ClassifySentiment(compound float64) Sentiment {
	switch {
	case compound >= POSITIVE_THRESHOLD:
		return SentimentPositive
	case compound <= NEGATIVE_THRESHOLD:
		return SentimentNegative
	default:
		return SentimentNeutral
	}
}

// ClassifyEmotion maps a compound score to its emotion bucket. Mildly positive
// scores (0.05 <= c < 0.6) are emotion-neutral even though they count as positive.
func ClassifyEmotion(compound float64) Emotion {
	switch {
	case compound >= HAPPY_THRESHOLD:
		return EmotionHappy
	case compound <= ANGRY_THRESHOLD:
		return EmotionAngry
	case compound <= NEGATIVE_THRESHOLD:
		return EmotionSad
	default:
		return EmotionNeutral
	}
}

// Classification is the pair of buckets derived from one compound score.
type Classification struct {
	Compound  float64
	Sentiment Sentiment
	Emotion   Emotion
}

func Classify(compound float64) Classification {
	return Classification{
		Compound:  compound,
		Sentiment: ClassifySentiment(compound),
		Emotion:   ClassifyEmotion(compound),
	}
}
