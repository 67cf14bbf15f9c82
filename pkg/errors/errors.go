package errors

import "errors"

// ErrStorageUnavailable 存储后端不可用：持久化失败必须向调用方硬性传播
var ErrStorageUnavailable = errors.New("存储后端不可用")

// ErrInvalidTimeRange 时间区间非法（from 必须早于 to）
var ErrInvalidTimeRange = errors.New("起始时间必须早于结束时间")
