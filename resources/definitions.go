package resources

import (
	"github.com/Dahire100/FrontierLMS-sub005/client"
	"github.com/Dahire100/FrontierLMS-sub005/core"
	"github.com/Dahire100/FrontierLMS-sub005/form"
	"github.com/Dahire100/FrontierLMS-sub005/store"
	"github.com/Dahire100/FrontierLMS-sub005/table"
)

// PromoteEndpoint is the bulk promotion action of the students collection.
const PromoteEndpoint = "/api/students/promote"

var (
	statusOptions    = []string{"active", "inactive"}
	attendanceStatus = []string{"present", "absent", "late", "leave"}
	workOrderStatus  = []string{"open", "in_progress", "completed", "cancelled"}
	audiences        = []string{"everyone", "students", "parents", "staff"}

	createdAt = form.Field{Name: "createdAt", Label: "Created", Kind: form.Date, ServerAssigned: true}
	createdOn = table.Column{Key: "createdAt", Label: "Created", Render: table.Date}
)

// names of the resources used outside the catalog
const (
	Students     = "students"
	FeeDiscounts = "fee-discounts"
	FeeReceipts  = "fee-receipts"
)

func definitions() []Definition {
	return []Definition{
		{
			Name:     Students,
			Title:    "students",
			Endpoint: "/api/students",
			Envelope: client.EnvelopeSuccess,
			Schema: form.Schema{
				{Name: "admissionNo", Label: "Admission No", Required: true},
				{Name: "firstName", Label: "First Name", Required: true},
				{Name: "lastName", Label: "Last Name", Required: true},
				{Name: "class", Label: "Class", Required: true},
				{Name: "section", Label: "Section"},
				{Name: "dateOfBirth", Label: "Date of Birth", Kind: form.Date},
				{Name: "guardianEmail", Label: "Guardian Email", Kind: form.Email},
				{Name: "percentage", Label: "Percentage", Kind: form.Number},
				{Name: "status", Label: "Status", Kind: form.Select, Options: statusOptions, Default: form.Value("active")},
				createdAt,
			},
			Columns: []table.Column{
				{Key: "admissionNo", Label: "Adm. No"},
				{Key: "name", Label: "Name", Render: table.Join(" ", "firstName", "lastName")},
				{Key: "class", Label: "Class", Render: table.Join("-", "class", "section")},
				{Key: "percentage", Label: "%"},
				{Key: "status", Label: "Status", Render: table.Status},
			},
			Filters: []string{"class", "section", "status"},
		},
		{
			Name:     FeeDiscounts,
			Title:    "fee discounts",
			Endpoint: "/api/fees/discounts",
			IDField:  core.LegacyIDField,
			Envelope: client.EnvelopeArray,
			Schema: form.Schema{
				{Name: "name", Label: "Discount Name", Required: true},
				{Name: "discountCode", Label: "Discount Code", Required: true},
				{Name: "type", Label: "Type", Kind: form.Select, Options: []string{"fixed", "percentage"}, Default: form.Value("fixed")},
				{Name: "amount", Label: "Amount", Kind: form.Number, Required: true},
				{Name: "description", Label: "Description"},
				createdAt,
			},
			Columns: []table.Column{
				{Key: "name", Label: "Name"},
				{Key: "discountCode", Label: "Code"},
				{Key: "type", Label: "Type", Render: table.Status},
				{Key: "amount", Label: "Amount", Render: table.Money},
			},
			Filters: []string{"type"},
		},
		{
			Name:     FeeReceipts,
			Title:    "fee receipts",
			Endpoint: "/api/fees/receipts",
			Envelope: client.EnvelopeData,
			Schema: form.Schema{
				{Name: "receiptNo", Label: "Receipt No", Required: true},
				{Name: "studentId", Label: "Student", Required: true},
				{Name: "amount", Label: "Amount Due", Kind: form.Number, Required: true},
				{Name: "paidAmount", Label: "Amount Paid", Kind: form.Number, Required: true},
				{Name: "paymentDate", Label: "Payment Date", Kind: form.Date, Default: form.Today},
				{Name: "paymentMode", Label: "Mode", Kind: form.Select, Options: []string{"cash", "bank", "mobile", "cheque"}, Default: form.Value("cash")},
				{Name: "balanceAmount", Label: "Balance", Kind: form.Number, ServerAssigned: true},
				createdAt,
			},
			Columns: []table.Column{
				{Key: "receiptNo", Label: "Receipt"},
				{Key: "studentId", Label: "Student"},
				{Key: "amount", Label: "Due", Render: table.Money},
				{Key: "paidAmount", Label: "Paid", Render: table.Money},
				{Key: "balanceAmount", Label: "Balance", Render: table.Money},
				{Key: "paymentDate", Label: "Date", Render: table.Date},
			},
			Filters: []string{"studentId", "paymentMode"},
			Compute: balance,
		},
		{
			Name:     "attendance",
			Title:    "attendance",
			Endpoint: "/api/attendance",
			Envelope: client.EnvelopeSuccess,
			Schema: form.Schema{
				{Name: "studentId", Label: "Student", Required: true},
				{Name: "class", Label: "Class", Required: true},
				{Name: "date", Label: "Date", Kind: form.Date, Required: true, Default: form.Today},
				{Name: "status", Label: "Status", Kind: form.Select, Options: attendanceStatus, Required: true, Default: form.Value("present")},
				{Name: "remarks", Label: "Remarks"},
			},
			Columns: []table.Column{
				{Key: "date", Label: "Date", Render: table.Date},
				{Key: "studentId", Label: "Student"},
				{Key: "class", Label: "Class"},
				{Key: "status", Label: "Status", Render: table.Status},
				{Key: "remarks", Label: "Remarks"},
			},
			Filters:   []string{"class", "date", "status"},
			Reconcile: store.ReconcileReload, // the register is re-read after each mark
		},
		{
			Name:     "exams",
			Title:    "exams",
			Endpoint: "/api/exams",
			Envelope: client.EnvelopeData,
			Schema: form.Schema{
				{Name: "name", Label: "Exam", Required: true},
				{Name: "class", Label: "Class", Required: true},
				{Name: "subject", Label: "Subject", Required: true},
				{Name: "examDate", Label: "Date", Kind: form.Date, Required: true},
				{Name: "maxMarks", Label: "Max Marks", Kind: form.Integer, Required: true, Default: form.Value("100")},
				{Name: "passMarks", Label: "Pass Marks", Kind: form.Integer, Default: form.Value("40")},
			},
			Columns: []table.Column{
				{Key: "name", Label: "Exam"},
				{Key: "class", Label: "Class"},
				{Key: "subject", Label: "Subject"},
				{Key: "examDate", Label: "Date", Render: table.Date},
				{Key: "maxMarks", Label: "Max"},
			},
			Filters: []string{"class", "subject"},
		},
		{
			Name:     "library-books",
			Title:    "library books",
			Endpoint: "/api/library/books",
			Envelope: client.EnvelopeArray,
			Schema: form.Schema{
				{Name: "title", Label: "Title", Required: true},
				{Name: "author", Label: "Author", Required: true},
				{Name: "isbn", Label: "ISBN"},
				{Name: "category", Label: "Category"},
				{Name: "quantity", Label: "Quantity", Kind: form.Integer, Required: true, Default: form.Value("1")},
				{Name: "available", Label: "Available", Kind: form.Bool, Default: form.Value("yes")},
			},
			Columns: []table.Column{
				{Key: "title", Label: "Title"},
				{Key: "author", Label: "Author"},
				{Key: "isbn", Label: "ISBN"},
				{Key: "quantity", Label: "Quantity"},
				{Key: "available", Label: "Available", Render: table.YesNo},
			},
			Filters: []string{"category", "available"},
		},
		{
			Name:     "hostel-rooms",
			Title:    "hostel rooms",
			Endpoint: "/api/hostel/rooms",
			Envelope: client.EnvelopeSuccess,
			Schema: form.Schema{
				{Name: "hostel", Label: "Hostel", Required: true},
				{Name: "roomNo", Label: "Room No", Required: true},
				{Name: "roomType", Label: "Type", Kind: form.Select, Options: []string{"single", "double", "dormitory"}, Default: form.Value("double")},
				{Name: "capacity", Label: "Capacity", Kind: form.Integer, Required: true},
				{Name: "costPerBed", Label: "Cost per Bed", Kind: form.Number},
			},
			Columns: []table.Column{
				{Key: "hostel", Label: "Hostel"},
				{Key: "roomNo", Label: "Room"},
				{Key: "roomType", Label: "Type", Render: table.Status},
				{Key: "capacity", Label: "Beds"},
				{Key: "costPerBed", Label: "Cost/Bed", Render: table.Money},
			},
			Filters: []string{"hostel", "roomType"},
		},
		{
			Name:     "transport-routes",
			Title:    "transport routes",
			Endpoint: "/api/transport/routes",
			Envelope: client.EnvelopeData,
			Schema: form.Schema{
				{Name: "routeName", Label: "Route", Required: true},
				{Name: "vehicleNo", Label: "Vehicle", Required: true},
				{Name: "driverName", Label: "Driver"},
				{Name: "fare", Label: "Fare", Kind: form.Number, Required: true},
			},
			Columns: []table.Column{
				{Key: "routeName", Label: "Route"},
				{Key: "vehicleNo", Label: "Vehicle"},
				{Key: "driverName", Label: "Driver"},
				{Key: "fare", Label: "Fare", Render: table.Money},
			},
			Filters: []string{"vehicleNo"},
		},
		{
			Name:     "lesson-plans",
			Title:    "lesson plans",
			Endpoint: "/api/lesson-plans",
			Envelope: client.EnvelopeArray,
			Schema: form.Schema{
				{Name: "class", Label: "Class", Required: true},
				{Name: "subject", Label: "Subject", Required: true},
				{Name: "topic", Label: "Topic", Required: true},
				{Name: "date", Label: "Date", Kind: form.Date, Default: form.Today},
				{Name: "status", Label: "Status", Kind: form.Select, Options: []string{"planned", "in_progress", "completed"}, Default: form.Value("planned")},
			},
			Columns: []table.Column{
				{Key: "date", Label: "Date", Render: table.Date},
				{Key: "class", Label: "Class"},
				{Key: "subject", Label: "Subject"},
				{Key: "topic", Label: "Topic"},
				{Key: "status", Label: "Status", Render: table.Status},
			},
			Filters: []string{"class", "subject", "status"},
		},
		{
			Name:     "announcements",
			Title:    "announcements",
			Endpoint: "/api/communications/announcements",
			Envelope: client.EnvelopeSuccess,
			Schema: form.Schema{
				{Name: "title", Label: "Title", Required: true},
				{Name: "message", Label: "Message", Required: true},
				{Name: "audience", Label: "Audience", Kind: form.Select, Options: audiences, Default: form.Value("everyone")},
				{Name: "publishDate", Label: "Publish Date", Kind: form.Date, Default: form.Today},
			},
			Columns: []table.Column{
				{Key: "publishDate", Label: "Date", Render: table.Date},
				{Key: "title", Label: "Title"},
				{Key: "audience", Label: "Audience", Render: table.Status},
			},
			Filters: []string{"audience"},
		},
		{
			Name:     "inventory-items",
			Title:    "inventory items",
			Endpoint: "/api/inventory/items",
			Envelope: client.EnvelopeData,
			Schema: form.Schema{
				{Name: "itemName", Label: "Item", Required: true},
				{Name: "category", Label: "Category"},
				{Name: "quantity", Label: "Quantity", Kind: form.Integer, Required: true},
				{Name: "unitPrice", Label: "Unit Price", Kind: form.Number, Required: true},
				{Name: "totalValue", Label: "Total Value", Kind: form.Number, ServerAssigned: true},
				createdAt,
			},
			Columns: []table.Column{
				{Key: "itemName", Label: "Item"},
				{Key: "category", Label: "Category"},
				{Key: "quantity", Label: "Quantity"},
				{Key: "unitPrice", Label: "Unit", Render: table.Money},
				{Key: "totalValue", Label: "Total", Render: table.Money},
				createdOn,
			},
			Filters: []string{"category"},
			Compute: stockValue,
		},
		{
			Name:     "work-orders",
			Title:    "work orders",
			Endpoint: "/api/procurement/work-orders",
			Envelope: client.EnvelopeSuccess,
			Schema: form.Schema{
				{Name: "orderNo", Label: "Order No", Required: true},
				{Name: "vendor", Label: "Vendor", Required: true},
				{Name: "description", Label: "Description"},
				{Name: "amount", Label: "Amount", Kind: form.Number, Required: true},
				{Name: "dueDate", Label: "Due Date", Kind: form.Date},
				{Name: "status", Label: "Status", Kind: form.Select, Options: workOrderStatus, Default: form.Value("open")},
				createdAt,
			},
			Columns: []table.Column{
				{Key: "orderNo", Label: "Order"},
				{Key: "vendor", Label: "Vendor"},
				{Key: "amount", Label: "Amount", Render: table.Money},
				{Key: "dueDate", Label: "Due", Render: table.Date},
				{Key: "status", Label: "Status", Render: table.Status},
				createdOn,
			},
			Filters: []string{"vendor", "status"},
		},
	}
}

// balance derives the outstanding amount of a fee receipt.
func balance(rec core.Record) {
	amount, okA := rec.Float("amount")
	paid, okP := rec.Float("paidAmount")
	if okA && okP {
		rec["balanceAmount"] = amount - paid
	}
}

func stockValue(rec core.Record) {
	qty, okQ := rec.Float("quantity")
	price, okP := rec.Float("unitPrice")
	if okQ && okP {
		rec["totalValue"] = qty * price
	}
}
