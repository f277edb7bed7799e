package ordersclient

import (
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/reflect/protodesc"
	"google.golang.org/protobuf/reflect/protoreflect"
	"google.golang.org/protobuf/reflect/protoregistry"
	"google.golang.org/protobuf/types/descriptorpb"
)

const (
	serviceName = "orders.Orders"

	methodNotifyExpirationTime = "/orders.Orders/NotifyExpirationTime"
	methodNotifyFoundedCourier = "/orders.Orders/NotifyFoundedCourier"
)

// messages holds the descriptors of orders.proto used by the client.
type messages struct {
	expirationRequest  protoreflect.MessageDescriptor
	expirationResponse protoreflect.MessageDescriptor
	courierRequest     protoreflect.MessageDescriptor
	courierResponse    protoreflect.MessageDescriptor
}

// ordersProto describes the subset of the Orders service this client calls:
//
//	service Orders {
//	  rpc NotifyExpirationTime(TimeExpirationRequest) returns (TimeExpirationResponse);
//	  rpc NotifyFoundedCourier(CourierForUserRequest) returns (CourierForUserResponse);
//	}
func ordersProto() *descriptorpb.FileDescriptorProto {
	return &descriptorpb.FileDescriptorProto{
		Name:    proto.String("orders.proto"),
		Package: proto.String("orders"),
		Syntax:  proto.String("proto3"),
		MessageType: []*descriptorpb.DescriptorProto{
			message("TimeExpirationRequest",
				field("user_uuid", 1, descriptorpb.FieldDescriptorProto_TYPE_STRING)),
			message("TimeExpirationResponse"),
			message("CourierForUserRequest",
				field("courier_uuid", 1, descriptorpb.FieldDescriptorProto_TYPE_STRING),
				field("user_uuid", 2, descriptorpb.FieldDescriptorProto_TYPE_STRING),
				field("courier_rating", 3, descriptorpb.FieldDescriptorProto_TYPE_FLOAT)),
			message("CourierForUserResponse"),
		},
		Service: []*descriptorpb.ServiceDescriptorProto{{
			Name: proto.String("Orders"),
			Method: []*descriptorpb.MethodDescriptorProto{
				{
					Name:       proto.String("NotifyExpirationTime"),
					InputType:  proto.String(".orders.TimeExpirationRequest"),
					OutputType: proto.String(".orders.TimeExpirationResponse"),
				},
				{
					Name:       proto.String("NotifyFoundedCourier"),
					InputType:  proto.String(".orders.CourierForUserRequest"),
					OutputType: proto.String(".orders.CourierForUserResponse"),
				},
			},
		}},
	}
}

func loadMessages() (messages, error) {
	file, err := protodesc.NewFile(ordersProto(), new(protoregistry.Files))
	if err != nil {
		return messages{}, err
	}

	byName := file.Messages()
	return messages{
		expirationRequest:  byName.ByName("TimeExpirationRequest"),
		expirationResponse: byName.ByName("TimeExpirationResponse"),
		courierRequest:     byName.ByName("CourierForUserRequest"),
		courierResponse:    byName.ByName("CourierForUserResponse"),
	}, nil
}

func message(name string, fields ...*descriptorpb.FieldDescriptorProto) *descriptorpb.DescriptorProto {
	return &descriptorpb.DescriptorProto{
		Name:  proto.String(name),
		Field: fields,
	}
}

func field(name string, number int32, kind descriptorpb.FieldDescriptorProto_Type) *descriptorpb.FieldDescriptorProto {
	return &descriptorpb.FieldDescriptorProto{
		Name:   proto.String(name),
		Number: proto.Int32(number),
		Label:  descriptorpb.FieldDescriptorProto_LABEL_OPTIONAL.Enum(),
		Type:   kind.Enum(),
	}
}
