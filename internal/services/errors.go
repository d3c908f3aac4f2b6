package services

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

type Code string

const (
	CodeUnauthenticated     Code = "unauthenticated"
	CodeValidationFailed    Code = "validation_failed"
	CodeForbiddenContent    Code = "forbidden_content"
	CodeDailyLimitExceeded  Code = "daily_limit_exceeded"
	CodeAlreadyVoted        Code = "already_voted"
	CodeMustContributeFirst Code = "must_contribute_first"
	CodeNotFound            Code = "not_found"
	CodeForbidden           Code = "forbidden"
	CodeDuplicateSubmission Code = "duplicate_submission"
	CodeWorkFinished        Code = "work_finished"
	CodeStoreError          Code = "store_error"
)

// ValidationFailed 的细分原因
const (
	ReasonEmptyContent    = "empty_content"
	ReasonContentTooLong  = "content_too_long"
	ReasonTitleTooShort   = "title_too_short"
	ReasonTitleTooLong    = "title_too_long"
	ReasonNicknameInvalid = "nickname_invalid"
	ReasonInvalidPattern  = "invalid_pattern"
)

// 数据库错误码（PostgreSQL SQLSTATE）
const (
	pgUniqueViolation     = "23505"
	pgCheckViolation      = "23514"
	pgForeignKeyViolation = "23503"
	pgPermissionDenied    = "42501"
	pgRaiseException      = "P0001"
)

// Error 业务错误，作为返回值交给调用方展示，不用于 panic
type Error struct {
	Code    Code   `json:"code"`
	Reason  string `json:"reason,omitempty"`
	Message string `json:"message"`
	Pattern string `json:"pattern,omitempty"` // 命中的屏蔽词
	Err     error  `json:"-"`
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// CodeOf 返回错误对应的业务码，非业务错误视为 store_error
func CodeOf(err error) Code {
	if err == nil {
		return ""
	}
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return CodeStoreError
}

// IsCode 判断 err 是否为指定业务码
func IsCode(err error, code Code) bool {
	return err != nil && CodeOf(err) == code
}

func newError(code Code, msg string) *Error {
	return &Error{Code: code, Message: msg}
}

func validation(reason, msg string) *Error {
	return &Error{Code: CodeValidationFailed, Reason: reason, Message: msg}
}

var (
	ErrUnauthenticated     = newError(CodeUnauthenticated, "请先登录")
	ErrEmptyContent        = validation(ReasonEmptyContent, "内容不能为空")
	ErrContentTooLong      = validation(ReasonContentTooLong, "内容不能超过 200 字")
	ErrTitleTooShort       = validation(ReasonTitleTooShort, "标题至少 2 个字")
	ErrTitleTooLong        = validation(ReasonTitleTooLong, "标题不能超过 100 个字")
	ErrNicknameInvalid     = validation(ReasonNicknameInvalid, "昵称需为 2-20 个字")
	ErrDailyLimitExceeded  = newError(CodeDailyLimitExceeded, "今天已经为这部作品接过龙了，明天再来吧")
	ErrAlreadyVoted        = newError(CodeAlreadyVoted, "你已经投过完结票了")
	ErrMustContributeFirst = newError(CodeMustContributeFirst, "参与接龙后才能投票")
	ErrWorkNotFound        = newError(CodeNotFound, "作品不存在")
	ErrForbidden           = newError(CodeForbidden, "无权操作此作品")
	ErrDuplicateSubmission = newError(CodeDuplicateSubmission, "请勿重复提交")
	ErrWorkFinished        = newError(CodeWorkFinished, "作品已完结")
)

// ForbiddenContent 携带命中的屏蔽词
func ForbiddenContent(pattern string) *Error {
	return &Error{
		Code:    CodeForbiddenContent,
		Message: fmt.Sprintf("内容包含违规词「%s」", pattern),
		Pattern: pattern,
	}
}

// TranslateStoreError 统一把存储层错误映射为业务错误，默认提示稍后再试
func TranslateStoreError(err error) *Error {
	if err == nil {
		return nil
	}
	var e *Error
	if errors.As(err, &e) {
		return e
	}

	out := &Error{Code: CodeStoreError, Message: "系统繁忙，请稍后再试", Err: err}

	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		out.Code = CodeNotFound
		out.Message = "记录不存在"
		return out
	case errors.Is(err, gorm.ErrDuplicatedKey):
		out.Message = "数据已存在，请勿重复提交"
		return out
	case errors.Is(err, gorm.ErrForeignKeyViolated):
		out.Message = "关联的数据不存在"
		return out
	case errors.Is(err, gorm.ErrCheckConstraintViolated):
		out.Message = "数据不符合要求"
		return out
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgUniqueViolation:
			out.Message = "数据已存在，请勿重复提交"
		case pgCheckViolation:
			out.Message = "数据不符合要求"
		case pgForeignKeyViolation:
			out.Message = "关联的数据不存在"
		case pgPermissionDenied:
			out.Code = CodeForbidden
			out.Message = "没有权限执行此操作"
		case pgRaiseException:
			// 存储过程主动抛出的错误，消息可直接展示
			if pgErr.Message != "" {
				out.Message = pgErr.Message
			}
		}
	}
	return out
}

// isUniqueViolation 兼容 GORM 翻译后的错误与原始 PgError
func isUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation
}
