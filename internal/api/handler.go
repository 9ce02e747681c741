// Package api - HTTP слой поверх ядра. Обработчики только разбирают запрос,
// передают id вызывающего явно и отображают виды ошибок в статусы.
package api

import (
	"github.com/VitaminP8/pulse/internal/comment"
	"github.com/VitaminP8/pulse/internal/engagement"
	"github.com/VitaminP8/pulse/internal/feed"
	"github.com/VitaminP8/pulse/internal/middleware"
	"github.com/VitaminP8/pulse/internal/post"
	"github.com/VitaminP8/pulse/internal/profile"
	"github.com/VitaminP8/pulse/internal/trend"
	"github.com/VitaminP8/pulse/internal/user"
	"go.uber.org/zap"
)

// Handler служит корневой точкой для всех обработчиков, сюда внедряются компоненты ядра
type Handler struct {
	Engine   *engagement.Engine
	Feed     *feed.Assembler
	Profiles *profile.Aggregator
	Trends   *trend.Extractor
	Posts    *post.Service
	Comments *comment.Service
	Users    *user.Service
	Metrics  *middleware.Metrics
	Log      *zap.Logger

	TrendSampleSize int
	TrendTopK       int
}
