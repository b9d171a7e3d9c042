package consts

const (
	// SourceNutrition / SourceWorkout 源服务名称，用作指标标签
	SourceNutrition = "nutrition"
	SourceWorkout   = "workout"
)

const (
	DropReasonMalformed    = "malformed"
	DropReasonUnknownTopic = "unknown_topic"
)
