package services

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"log"
	"time"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"
	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"

	config "github.com/anjiri1684/medicall/configs"
	"github.com/anjiri1684/medicall/database"
	"github.com/anjiri1684/medicall/models"
)

// GenerateReceipt renders a PDF receipt for a freshly settled booking and
// stores its URL on the record. Runs fire-and-forget after the settlement
// transaction commits; failures are logged, never surfaced.
func GenerateReceipt(record models.SettlementRecord, patientName, providerName string) {
	htmlData, err := renderReceiptHTML(record, patientName, providerName)
	if err != nil {
		log.Printf("🔥 Failed to render receipt HTML for settlement %s: %v", record.ID, err)
		return
	}

	pdfBytes, err := generatePDFFromHTML(htmlData)
	if err != nil {
		log.Printf("🔥 Failed to generate receipt PDF for settlement %s: %v", record.ID, err)
		return
	}

	uploadURL, err := uploadReceipt(pdfBytes, record.ID.String())
	if err != nil {
		log.Printf("🔥 Failed to upload receipt for settlement %s: %v", record.ID, err)
		return
	}

	err = database.DB.Model(&models.SettlementRecord{}).
		Where("id = ?", record.ID).
		Update("receipt_url", uploadURL).Error
	if err != nil {
		log.Printf("🔥 Failed to store receipt URL for settlement %s: %v", record.ID, err)
		return
	}

	log.Printf("✅ Generated receipt for settlement %s", record.ID)
}

func renderReceiptHTML(record models.SettlementRecord, patientName, providerName string) (string, error) {
	tmpl, err := template.ParseFiles("templates/receipt.html")
	if err != nil {
		return "", err
	}

	data := struct {
		PatientName  string
		ProviderName string
		ServiceFee   float64
		TransportFee float64
		PlatformFee  float64
		TotalFee     float64
		Succeeded    bool
		Date         string
	}{
		PatientName:  patientName,
		ProviderName: providerName,
		ServiceFee:   record.ServiceFee,
		TransportFee: record.TransportFee,
		PlatformFee:  record.PlatformFee,
		TotalFee:     record.TotalFee(),
		Succeeded:    record.Succeeded,
		Date:         time.Now().Format("January 2, 2006"),
	}

	var renderedHTML bytes.Buffer
	if err := tmpl.Execute(&renderedHTML, data); err != nil {
		return "", err
	}
	return renderedHTML.String(), nil
}

func generatePDFFromHTML(htmlContent string) ([]byte, error) {
	ctx, cancel := chromedp.NewContext(context.Background())
	defer cancel()

	var pdfBuffer []byte
	err := chromedp.Run(ctx,
		chromedp.Navigate("about:blank"),
		chromedp.ActionFunc(func(ctx context.Context) error {
			frameTree, err := page.GetFrameTree().Do(ctx)
			if err != nil {
				return err
			}
			return page.SetDocumentContent(frameTree.Frame.ID, htmlContent).Do(ctx)
		}),
		chromedp.ActionFunc(func(ctx context.Context) error {
			pdf, _, err := page.PrintToPDF().WithPrintBackground(true).Do(ctx)
			if err != nil {
				return err
			}
			pdfBuffer = pdf
			return nil
		}),
	)
	if err != nil {
		return nil, err
	}
	return pdfBuffer, nil
}

func uploadReceipt(fileBytes []byte, settlementID string) (string, error) {
	cld, err := cloudinary.NewFromURL(config.Config("CLOUDINARY_URL"))
	if err != nil {
		return "", err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	uploadParams := uploader.UploadParams{
		PublicID:     fmt.Sprintf("receipts/%s", settlementID),
		Folder:       "medicall_receipts",
		ResourceType: "raw",
	}

	uploadResult, err := cld.Upload.Upload(ctx, bytes.NewReader(fileBytes), uploadParams)
	if err != nil {
		return "", err
	}

	return uploadResult.SecureURL, nil
}
