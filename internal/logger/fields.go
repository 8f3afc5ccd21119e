package logger

import (
	"time"

	"go.uber.org/zap"
)

// HTTP

func RequestID(v string) zap.Field { return zap.String("request_id", v) }

func Method(v string) zap.Field { return zap.String("method", v) }

func Path(v string) zap.Field { return zap.String("path", v) }

func Status(v int) zap.Field { return zap.Int("status", v) }

func Bytes(v int) zap.Field { return zap.Int("bytes", v) }

func Duration(v time.Duration) zap.Field { return zap.Duration("duration", v) }

// Negócio

func AccountID(v int64) zap.Field { return zap.Int64("account_id", v) }

func ProductID(v int64) zap.Field { return zap.Int64("product_id", v) }

func SourceProductID(v int64) zap.Field { return zap.Int64("source_product_id", v) }

func CategoryID(v int64) zap.Field { return zap.Int64("category_id", v) }

func Role(v string) zap.Field { return zap.String("perfil", v) }

// Sistema

func Op(v string) zap.Field { return zap.String("op", v) }

func Err(err error) zap.Field { return zap.Error(err) }
