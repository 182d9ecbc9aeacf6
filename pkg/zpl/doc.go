// Package zpl формирует поток команд ZPL для термопринтеров чеков и доставляет
// его на принтер по TCP или через последовательный порт (Bluetooth SPP).
//
// Пример использования:
//
//	codec := zpl.NewCodec(zpl.LayoutZQ520)
//	data := codec.EncodeReceipt("ТОВАР 1\nИТОГО 100")
//
//	transport := zpl.NewTransport(zpl.Config{
//	    ConnectionType: zpl.ConnectionTCP,
//	    IPAddress:      "192.168.1.50",
//	})
//	if err := transport.Send(ctx, data); err != nil {
//	    log.Fatal(err)
//	}
//
// Кодек не имеет пути ошибки: любой текст, включая пустой, кодируется
// в корректную последовательность команд.
package zpl
