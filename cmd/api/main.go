package main

import (
	"log"
	"pricehistory/cmd"
	"pricehistory/internal/util"

	_ "github.com/lib/pq"
)

func main() {
	secrets, err := util.LoadSecrets()
	if err != nil {
		log.Fatal(err)
	}

	apiHandler, err := cmd.InitializeDependencies()
	if err != nil {
		log.Fatal(err)
	}
	defer cmd.CloseDependencies(apiHandler)

	err = apiHandler.StartApi(secrets.ApiPort)
	if err != nil {
		log.Fatal(err)
	}
}
