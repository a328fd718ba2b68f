package errors

import "errors"

// ErrSwipeInFlight 同一学生的另一次刷卡正在处理中
var ErrSwipeInFlight = errors.New("同一学生的刷卡正在处理中，请稍后重试")
