package backend

import (
	"fmt"

	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/reflect/protodesc"
	"google.golang.org/protobuf/reflect/protoreflect"
	"google.golang.org/protobuf/reflect/protoregistry"
	"google.golang.org/protobuf/types/descriptorpb"
	"google.golang.org/protobuf/types/dynamicpb"
	_ "google.golang.org/protobuf/types/known/wrapperspb"
)

const (
	// ServiceName is the fully-qualified backend service.
	ServiceName = "sms.test.grpc.SmsTestService"

	GetMenuFullMethod   = "/" + ServiceName + "/GetMenu"
	SendOrderFullMethod = "/" + ServiceName + "/SendOrder"

	protoFile    = "sms_test.proto"
	protoPackage = "sms.test.grpc"
)

// schema holds the message descriptors of the backend contract.
type schema struct {
	file          protoreflect.FileDescriptor
	menuItem      protoreflect.MessageDescriptor
	menuResponse  protoreflect.MessageDescriptor
	order         protoreflect.MessageDescriptor
	orderItem     protoreflect.MessageDescriptor
	orderResponse protoreflect.MessageDescriptor
}

var contract = mustBuildSchema()

func mustBuildSchema() *schema {
	s, err := buildSchema()
	if err != nil {
		panic(fmt.Sprintf("build backend grpc schema: %v", err))
	}
	return s
}

func buildSchema() (*schema, error) {
	const (
		optional = descriptorpb.FieldDescriptorProto_LABEL_OPTIONAL
		repeated = descriptorpb.FieldDescriptorProto_LABEL_REPEATED

		tString  = descriptorpb.FieldDescriptorProto_TYPE_STRING
		tBool    = descriptorpb.FieldDescriptorProto_TYPE_BOOL
		tDouble  = descriptorpb.FieldDescriptorProto_TYPE_DOUBLE
		tMessage = descriptorpb.FieldDescriptorProto_TYPE_MESSAGE
	)
	fdp := &descriptorpb.FileDescriptorProto{
		Name:       proto.String(protoFile),
		Package:    proto.String(protoPackage),
		Syntax:     proto.String("proto3"),
		Dependency: []string{"google/protobuf/wrappers.proto"},
		MessageType: []*descriptorpb.DescriptorProto{
			message("MenuItem",
				field("id", 1, optional, tString, ""),
				field("article", 2, optional, tString, ""),
				field("name", 3, optional, tString, ""),
				field("price", 4, optional, tDouble, ""),
				field("is_weighted", 5, optional, tBool, ""),
				field("full_path", 6, optional, tString, ""),
				field("barcodes", 7, repeated, tString, ""),
			),
			message("MenuResponse",
				field("success", 1, optional, tBool, ""),
				field("error_message", 2, optional, tString, ""),
				field("menu_items", 3, repeated, tMessage, ".sms.test.grpc.MenuItem"),
			),
			message("OrderItem",
				field("id", 1, optional, tString, ""),
				field("quantity", 2, optional, tDouble, ""),
			),
			message("Order",
				field("id", 1, optional, tString, ""),
				field("order_items", 2, repeated, tMessage, ".sms.test.grpc.OrderItem"),
			),
			message("OrderResponse",
				field("success", 1, optional, tBool, ""),
				field("error_message", 2, optional, tString, ""),
			),
		},
		Service: []*descriptorpb.ServiceDescriptorProto{{
			Name: proto.String("SmsTestService"),
			Method: []*descriptorpb.MethodDescriptorProto{
				{
					Name:       proto.String("GetMenu"),
					InputType:  proto.String(".google.protobuf.BoolValue"),
					OutputType: proto.String(".sms.test.grpc.MenuResponse"),
				},
				{
					Name:       proto.String("SendOrder"),
					InputType:  proto.String(".sms.test.grpc.Order"),
					OutputType: proto.String(".sms.test.grpc.OrderResponse"),
				},
			},
		}},
	}
	file, err := protodesc.NewFile(fdp, protoregistry.GlobalFiles)
	if err != nil {
		return nil, err
	}
	messages := file.Messages()
	return &schema{
		file:          file,
		menuItem:      messages.ByName("MenuItem"),
		menuResponse:  messages.ByName("MenuResponse"),
		order:         messages.ByName("Order"),
		orderItem:     messages.ByName("OrderItem"),
		orderResponse: messages.ByName("OrderResponse"),
	}, nil
}

func message(name string, fields ...*descriptorpb.FieldDescriptorProto) *descriptorpb.DescriptorProto {
	return &descriptorpb.DescriptorProto{Name: proto.String(name), Field: fields}
}

func field(name string, number int32, label descriptorpb.FieldDescriptorProto_Label, typ descriptorpb.FieldDescriptorProto_Type, typeName string) *descriptorpb.FieldDescriptorProto {
	f := &descriptorpb.FieldDescriptorProto{
		Name:   proto.String(name),
		Number: proto.Int32(number),
		Label:  label.Enum(),
		Type:   typ.Enum(),
	}
	if typeName != "" {
		f.TypeName = proto.String(typeName)
	}
	return f
}

// FileDescriptor exposes the contract, e.g. for reflection services.
func FileDescriptor() protoreflect.FileDescriptor {
	return contract.file
}

func fieldOf(md protoreflect.MessageDescriptor, name protoreflect.Name) protoreflect.FieldDescriptor {
	return md.Fields().ByName(name)
}

func newMessage(md protoreflect.MessageDescriptor) *dynamicpb.Message {
	return dynamicpb.NewMessage(md)
}
