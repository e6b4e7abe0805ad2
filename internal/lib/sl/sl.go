// Package sl содержит вспомогательные функции для работы с логгером slog.
package sl

import "log/slog"

// Err возвращает slog.Attr с ключом "error" и текстом ошибки.
//
// Пример:
//
//	log.Error("payment request failed", sl.Err(err))
func Err(err error) slog.Attr {
	if err == nil {
		return slog.String("error", "<nil>")
	}
	return slog.String("error", err.Error())
}

// Card возвращает маскированный номер карты. Допускаются только последние 4 цифры,
// полный номер в логи попадать не должен.
func Card(last4 string) slog.Attr {
	return slog.String("card", "**** "+last4)
}
