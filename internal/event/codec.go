package event

import (
	"errors"
	"fmt"
	"reflect"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/goccy/go-json"
	"github.com/shopspring/decimal"
)

// ErrMalformedEvent 载荷无法解析或不满足约束，消费端应丢弃而不是重试
var ErrMalformedEvent = errors.New("malformed event")

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	// decimal 与 Date 转成基础类型后再走 gte / required 规则
	v.RegisterCustomTypeFunc(func(field reflect.Value) interface{} {
		if d, ok := field.Interface().(decimal.Decimal); ok {
			f, _ := d.Float64()
			return f
		}
		return nil
	}, decimal.Decimal{})
	v.RegisterCustomTypeFunc(func(field reflect.Value) interface{} {
		if d, ok := field.Interface().(Date); ok {
			return time.Time(d)
		}
		return nil
	}, Date{})
	return v
}

// New 根据 topic 构造空事件，未知 topic 返回 nil
func New(topic Topic) Event {
	switch topic {
	case TopicUserRegistered:
		return &UserRegistered{}
	case TopicUserWeightUpdated:
		return &UserWeightUpdated{}
	case TopicMealCreated:
		return &MealCreated{}
	case TopicWorkoutCompleted:
		return &WorkoutCompleted{}
	default:
		return nil
	}
}

// Decode 解析并校验日志中的消息值
func Decode(topic Topic, value []byte) (Event, error) {
	evt := New(topic)
	if evt == nil {
		return nil, fmt.Errorf("%w: unknown topic %q", ErrMalformedEvent, topic)
	}
	if len(value) == 0 {
		return nil, fmt.Errorf("%w: empty value", ErrMalformedEvent)
	}
	if err := json.Unmarshal(value, evt); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedEvent, err)
	}
	if err := Validate(evt); err != nil {
		return nil, err
	}
	return evt, nil
}

// Validate 校验事件字段约束
func Validate(evt Event) error {
	if err := validate.Struct(evt); err != nil {
		return fmt.Errorf("%w: %v", ErrMalformedEvent, err)
	}
	return nil
}

// Encode 序列化事件为日志消息值
func Encode(evt Event) ([]byte, error) {
	return json.Marshal(evt)
}

// PartitionKey 分区键：十进制的 userId，保证同一用户的事件有序
func PartitionKey(evt Event) string {
	return strconv.FormatUint(evt.Meta().UserID, 10)
}
