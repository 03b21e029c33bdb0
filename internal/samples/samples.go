// Package samples produces demo transactions for the form and the CLI.
package samples

import (
	"fmt"
	"time"

	"fraudconsole/internal/models"

	"github.com/brianvoe/gofakeit/v7"
)

// sampleFeatures is the first row of the public credit-card fraud dataset.
var sampleFeatures = models.Features{
	-1.3598071336738,
	-0.0727811733098497,
	2.53634673796914,
	1.37815522427443,
	-0.338320769942518,
	0.462387777762292,
	0.239598554061257,
	0.0986979012610507,
	0.363786969611213,
	0.0907941719789316,
	-0.551599533260813,
	-0.617800855762348,
	-0.991389847235408,
	-0.311169353699879,
	1.46817697209427,
	-0.470400525259478,
	0.207971241929242,
	0.0257905801985591,
	0.403992960255733,
	0.251412098239705,
	-0.018306777944153,
	0.277837575558899,
	-0.110473910188767,
	0.0669280749146731,
	0.128539358273528,
	-0.189114843888824,
	0.133558376740387,
	-0.0210530534538215,
}

const (
	SampleAmount = 149.62
	SampleTime   = 406
)

// Fixed returns the hardcoded example transaction, stamped with now.
func Fixed(now time.Time) models.TransactionInput {
	return models.TransactionInput{
		TransactionID: fmt.Sprintf("SAMPLE-%d", now.UnixMilli()),
		Amount:        SampleAmount,
		Time:          SampleTime,
		Features:      sampleFeatures,
	}
}

// Generator builds random transactions in the ranges of the batch example:
// features in [-3, 3], time within two days, amount up to 1000.
type Generator struct {
	faker *gofakeit.Faker
}

func NewGenerator(faker *gofakeit.Faker) *Generator {
	return &Generator{faker: faker}
}

// Random returns a transaction with a RAND-prefixed id.
func (g *Generator) Random(now time.Time) models.TransactionInput {
	in := models.TransactionInput{
		TransactionID: fmt.Sprintf("RAND-%d-%s", now.UnixMilli(), g.faker.LetterN(4)),
		Amount:        g.faker.Float64Range(0.01, 1000),
		Time:          g.faker.Float64Range(0, 172800),
	}
	for i := range in.Features {
		in.Features[i] = g.faker.Float64Range(-3, 3)
	}
	return in
}
