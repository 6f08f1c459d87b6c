// Package lib holds supporting modules that do not fit strictly into the
// handler/service/repository layers, such as background job processing
// (Redis/Asynq).
package lib
