package kplan

//go:generate mockgen -destination=mock_kplan_test.go -package=kplan . LoopIsolator
