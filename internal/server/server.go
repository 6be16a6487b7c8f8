package server

// Server объединяет HTTP серверы отдельных сущностей.
type Server struct {
	WheelServer
	WalletServer
}

func NewServer(
	wheelServer WheelServer,
	walletServer WalletServer,
) Server {
	return Server{
		WheelServer:  wheelServer,
		WalletServer: walletServer,
	}
}
