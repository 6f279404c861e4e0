package content_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/suite"
	"github.com/vytor/senseflash/internal/content"
	"github.com/vytor/senseflash/internal/db"
	"github.com/vytor/senseflash/internal/models"
	"github.com/vytor/senseflash/internal/testutil"
	"github.com/xuri/excelize/v2"
)

type CatalogSuite struct {
	suite.Suite
	db      *db.DB
	catalog *content.Catalog
	ctx     context.Context
}

func (s *CatalogSuite) SetupTest() {
	s.db = testutil.NewTestDB(s.T())
	s.catalog = content.NewCatalog(s.db.DB)
	s.ctx = context.Background()
}

func (s *CatalogSuite) TearDownTest() {
	testutil.MustClose(s.T(), s.db)
}

func (s *CatalogSuite) TestUpsertAndQueryByTag() {
	rows := []models.SenseRow{
		{SensesID: 10, WordID: 1, Word: "apple", PartOfSpeech: "noun", DefinitionJa: "りんご", ExampleEn: "An apple.", Tags: "toeic,food"},
		{SensesID: 20, WordID: 2, Word: "run", DefinitionJa: "走る", Tags: "eiken"},
		{SensesID: 11, WordID: 1, Word: "apple", DefinitionJa: "リンゴの木", Tags: "toeic"},
	}
	s.Require().NoError(s.catalog.Upsert(s.ctx, rows))

	got, err := s.catalog.SensesByTag(s.ctx, "toeic")
	s.Require().NoError(err)
	s.Require().Len(got, 2)
	s.Assert().Equal(rows[0], got[0])
	s.Assert().Equal(int64(11), got[1].SensesID)

	n, err := s.catalog.Count(s.ctx)
	s.Require().NoError(err)
	s.Assert().Equal(3, n)
}

func (s *CatalogSuite) TestUpsertReplaces() {
	s.Require().NoError(s.catalog.Upsert(s.ctx, []models.SenseRow{{SensesID: 10, WordID: 1, Word: "apple", DefinitionJa: "old", Tags: "t"}}))
	s.Require().NoError(s.catalog.Upsert(s.ctx, []models.SenseRow{{SensesID: 10, WordID: 1, Word: "Apple", DefinitionJa: "new", Tags: "t"}}))

	got, err := s.catalog.SensesByTag(s.ctx, "t")
	s.Require().NoError(err)
	s.Require().Len(got, 1)
	s.Assert().Equal("new", got[0].DefinitionJa)
	s.Assert().Equal("Apple", got[0].Word)
}

func (s *CatalogSuite) TestImportFile() {
	path := filepath.Join(s.T().TempDir(), "words.xlsx")
	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	s.Require().NoError(f.SetSheetRow(sheet, "A1", &[]any{"word_id", "word", "senses_id", "pos", "en", "ja", "seEn", "seJa", "tags"}))
	s.Require().NoError(f.SetSheetRow(sheet, "A2", &[]any{1, "apple", 10, "noun", "a fruit", "りんご", "I ate an apple.", "りんごを食べた。", "toeic"}))
	s.Require().NoError(f.SetSheetRow(sheet, "A3", &[]any{"x", "broken", 11, "", "", "", "", "", "toeic"}))
	s.Require().NoError(f.SetSheetRow(sheet, "A4", &[]any{2, "run", 20, "verb", "move", "走る", "", "", "toeic"}))
	s.Require().NoError(f.SaveAs(path))
	s.Require().NoError(f.Close())

	result, err := content.ImportFile(s.ctx, content.ImportConfig{FilePath: path}, s.catalog)
	s.Require().NoError(err)
	s.Assert().Equal(3, result.Processed)
	s.Assert().Equal(2, result.Imported)
	s.Assert().Equal(1, result.Skipped)
	s.Require().Len(result.Errors, 1)
	s.Assert().Contains(result.Errors[0], "Row 3")

	got, err := s.catalog.SensesByTag(s.ctx, "toeic")
	s.Require().NoError(err)
	s.Require().Len(got, 2)
	s.Assert().Equal("I ate an apple.", got[0].ExampleEn)
	s.Assert().Equal("run", got[1].Word)
}

func (s *CatalogSuite) TestImportMissingFile() {
	_, err := content.ImportFile(s.ctx, content.ImportConfig{FilePath: "/nonexistent.xlsx"}, s.catalog)
	s.Assert().Error(err)
}

func TestCatalogSuite(t *testing.T) {
	suite.Run(t, new(CatalogSuite))
}
