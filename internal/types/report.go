package types

// Report wire shapes. These are what Report.Metrics and Report.Details hold
// once the JSONB blobs are decoded.

type UtteranceMetric struct {
	Text            string  `json:"text"`
	Response        string  `json:"response"`
	SimilarityScore float64 `json:"similarityScore"`
	Analysis        string  `json:"analysis"`
}

type QuestionMetric struct {
	Question          string            `json:"question"`
	Score             float64           `json:"score"`
	AverageSimilarity float64           `json:"averageSimilarity"`
	ConsistencyScore  float64           `json:"consistencyScore"`
	Utterances        []UtteranceMetric `json:"utterances"`
}

type ReportMetrics struct {
	TotalQuestions         int              `json:"totalQuestions"`
	TotalIntents           int              `json:"totalIntents"`
	AccuracyByQuestion     []QuestionMetric `json:"accuracyByQuestion"`
	AverageResponseQuality float64          `json:"averageResponseQuality"`
	ConsistencyScore       float64          `json:"consistencyScore"`
}

type QuestionReview struct {
	Question   string   `json:"question"`
	Accuracy   float64  `json:"accuracy"`
	Comments   string   `json:"comments"`
	Strengths  []string `json:"strengths"`
	Weaknesses []string `json:"weaknesses"`
}

type ReportDetails struct {
	Summary             string           `json:"summary"`
	Recommendations     []string         `json:"recommendations"`
	QuestionAnalysis    []QuestionReview `json:"questionAnalysis"`
	ConsistencyAnalysis string           `json:"consistencyAnalysis"`
}

type ReportPayload struct {
	OverallScore float64       `json:"overallScore"`
	Metrics      ReportMetrics `json:"metrics"`
	Details      ReportDetails `json:"details"`
}
