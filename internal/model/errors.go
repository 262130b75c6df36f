package model

import (
	"errors"
	"fmt"
)

// ErrNotFound 标识请求的商品不存在，LookupError 通过 errors.Is 与其匹配。
var ErrNotFound = errors.New("product not found")

// ParseError 原始 CSV 中价格或日期格式错误，整次运行终止。
type ParseError struct {
	Line  int // 数据行号，从 1 开始，不含表头
	Field string
	Value string
	Err   error
}

func (e *ParseError) Error() string {
	if e.Line == 0 {
		return fmt.Sprintf("parse %s %q: %v", e.Field, e.Value, e.Err)
	}
	return fmt.Sprintf("parse %s %q on line %d: %v", e.Field, e.Value, e.Line, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// ImportError 规范化 CSV 中的行无法转换为商品记录。
type ImportError struct {
	Line int
	Err  error
}

func (e *ImportError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("import line %d: %v", e.Line, e.Err)
	}
	return fmt.Sprintf("import: %v", e.Err)
}

func (e *ImportError) Unwrap() error { return e.Err }

// LookupError 按 id 查询或删除时记录不存在。
type LookupError struct {
	ID uint
}

func (e *LookupError) Error() string {
	return fmt.Sprintf("no product with id %d", e.ID)
}

func (e *LookupError) Is(target error) bool { return target == ErrNotFound }

// InputError 交互输入无法转换为所需类型。
type InputError struct {
	Field string
	Value string
	Err   error
}

func (e *InputError) Error() string {
	return fmt.Sprintf("invalid %s %q: %v", e.Field, e.Value, e.Err)
}

func (e *InputError) Unwrap() error { return e.Err }

// StorageError 数据库或文件读写失败，调用方应终止进程。
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage %s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error { return e.Err }
