package service

//go:generate mockgen -package=${GOPACKAGE}mock -destination=${GOPACKAGE}mock/executor.go -mock_names=Executor=Executor . Executor
//go:generate mockgen -package=${GOPACKAGE}mock -destination=${GOPACKAGE}mock/handle.go -mock_names=Handle=Handle . Handle
//go:generate mockgen -package=${GOPACKAGE}mock -destination=${GOPACKAGE}mock/chain_info.go -mock_names=ChainInfo=ChainInfo . ChainInfo
