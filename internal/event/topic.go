package event

// Topic 日志上的领域事件类型
type Topic string

const (
	TopicUserRegistered    Topic = "user.registered"
	TopicUserWeightUpdated Topic = "user.weight.updated"
	TopicMealCreated       Topic = "meal.created"
	TopicWorkoutCompleted  Topic = "workout.completed"
)

// Topics 全部受支持的 topic，按订阅顺序
var Topics = []Topic{
	TopicUserRegistered,
	TopicUserWeightUpdated,
	TopicMealCreated,
	TopicWorkoutCompleted,
}

func (t Topic) String() string {
	return string(t)
}

// Valid 是否为已知 topic
func (t Topic) Valid() bool {
	for _, v := range Topics {
		if v == t {
			return true
		}
	}
	return false
}
