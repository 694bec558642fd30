package raffle

//go:generate mockgen -package=${GOPACKAGE}mock -destination=${GOPACKAGE}mock/caller.go -mock_names=Caller=Caller . Caller
