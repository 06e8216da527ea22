package ingest

import (
	"context"
	"encoding/csv"
	"io"

	"github.com/rotisserie/eris"

	"github.com/recruiting-ops/funnel-cli/internal/model"
)

// ReadCSV parses a recruitment export. The first row must be the header;
// rows with a different field count than the header are still accepted.
func ReadCSV(ctx context.Context, r io.Reader) ([]model.Application, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	header, err := reader.Read()
	if err == io.EOF {
		return nil, eris.New("csv: empty file")
	}
	if err != nil {
		return nil, eris.Wrap(err, "csv: read header")
	}
	idx := indexColumns(header)

	var apps []model.Application
	for {
		if err := ctx.Err(); err != nil {
			return nil, eris.Wrap(err, "csv: context cancelled")
		}
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, eris.Wrap(err, "csv: read row")
		}
		apps = append(apps, rowToApplication(idx, row))
	}
	return apps, nil
}

func rowToApplication(idx columnIndex, row []string) model.Application {
	return model.Application{
		Name:               idx.cell(row, colName),
		DateOfBirth:        parseDate(idx.cell(row, colDateOfBirth)),
		Nationality:        idx.cell(row, colNationality),
		CountryOfResidence: idx.cell(row, colResidence),
		AgeGroup:           idx.cell(row, colAgeGroup),
		SpeakArabic:        idx.cell(row, colSpeakArabic),

		Status:          idx.cell(row, colStatus),
		InterviewStatus: idx.cell(row, colInterviewStatus),

		JobTitle: idx.cell(row, colJobTitle),
		Source:   idx.cell(row, colSource),

		TestGorillaScore: parseScore(idx.cell(row, colGorillaScore)),
		MaidsccScore:     parseScore(idx.cell(row, colMaidsccScore)),
		IQRating:         idx.cell(row, colIQRating),

		InterviewFeedbackBy:   idx.cell(row, colFeedbackBy),
		Interviewers:          idx.cell(row, colInterviewers),
		InterviewFeedback:     idx.cell(row, colFeedback),
		InterviewFeedbackType: idx.cell(row, colFeedbackType),

		CreatedAt:          parseDate(idx.cell(row, colCreated)),
		ModifiedAt:         parseDate(idx.cell(row, colModified)),
		InterviewCreatedAt: parseDate(idx.cell(row, colInterviewTime)),
		OfferSentAt:        parseDate(idx.cell(row, colOfferSent)),
		OfferAcceptedAt:    parseDate(idx.cell(row, colOfferAccept)),
		HiredAt:            parseDate(idx.cell(row, colDateHired)),
		TestGorillaDoneAt:  parseDate(idx.cell(row, colGorillaDone)),
		SparkhireDoneAt:    parseDate(idx.cell(row, colSparkhireDone)),
	}
}
