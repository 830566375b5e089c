// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package bootstrap

import (
	"github.com/AccelByte/extend-mercado-lp/pkg/signal"
	signalBuiltin "github.com/AccelByte/extend-mercado-lp/pkg/signal/builtin"
	"github.com/sirupsen/logrus"
)

// InitSignalProcessor creates a signal processor with the builtin mappers.
//
// ============================================================
// DEVELOPER: Register custom signal mappers here.
// ============================================================
// Mappers turn store activities into typed signals. Activities
// without a mapper become a BaseSignal carrying the activity value.
//
// Steps to add a new mapper:
// 1. Create your signal and mapper in pkg/signal/builtin/
// 2. Register it in RegisterMappers
// 3. Emit the activity kind from the game store
// ============================================================
func InitSignalProcessor() *signal.Processor {
	processor := signal.NewProcessor()
	signalBuiltin.RegisterMappers(processor.GetMapperRegistry())

	logrus.Infof("initialized signal processor with %d mappers", processor.GetMapperRegistry().Count())
	return processor
}
