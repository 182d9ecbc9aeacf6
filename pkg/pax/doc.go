// Package pax реализует протокол платежных терминалов PAX, доступных в локальной
// сети по HTTP: построение запроса на продажу и разбор ответа терминала в
// нормализованный результат.
//
// Терминал принимает сумму в единицах в 100 раз мельче минимальной единицы
// валюты POS, поэтому сумма умножается на 100 перед отправкой:
//
//	GET {baseURL}/venta?monto={amount*100}
//
// Пример:
//
//	client := pax.New(pax.Config{Timeout: 90 * time.Second})
//	res := client.Charge(ctx, "http://192.168.1.40:8080", 1000)
//	if !res.Success {
//	    fmt.Println(*res.ErrorMessage)
//	}
//
// Ошибки связи и разбора не возвращаются как error: они превращаются в Result
// с Success=false и заполненным ErrorMessage. Отказ банка (код ответа не "00")
// тоже не является ошибкой, это обычный результат с кодом ответа.
package pax
