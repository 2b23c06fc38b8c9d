// Command capi builds the jseval shared library for foreign hosts:
//
//	go build -buildmode=c-shared -o libjseval.so ./capi
//
// The exported functions are declared in jseval.h. Configuration is read
// once, on the first call, from the file named by JSEVAL_CONFIG and from
// JSEVAL_ environment variables.
package main

func main() {}
