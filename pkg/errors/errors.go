package errors

import "errors"

// ErrConcurrentConflict 并发冲突：事务与其他提交发生序列化冲突，需操作员手动重试
var ErrConcurrentConflict = errors.New("数据已被其他操作修改，请刷新后重试")
