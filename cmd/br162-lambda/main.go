package main

import (
	"github.com/aws/aws-lambda-go/lambda"

	"github.com/tyler180/baseball-per162/internal/app/scrape"
)

func main() {
	lambda.Start(scrape.LambdaEntrypoint)
}
